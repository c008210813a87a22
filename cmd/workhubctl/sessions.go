package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"backend-workhub/internal/config"
	"backend-workhub/internal/workprogress"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func newSessionsCmd(e env) *cobra.Command {
	var employeeID, from, to string
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List an employee's tracked days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(e, func(cfg config.Config, s store) error {
				loc, err := time.LoadLocation(cfg.TrackerTimezone)
				if err != nil {
					return fmt.Errorf("tracker timezone: %w", err)
				}
				start, err := time.ParseInLocation(dateLayout, from, loc)
				if err != nil {
					return fmt.Errorf("--from: %w", err)
				}
				end := start
				if to != "" {
					if end, err = time.ParseInLocation(dateLayout, to, loc); err != nil {
						return fmt.Errorf("--to: %w", err)
					}
				}

				svc := workprogress.NewService(s, nil, loc, "")
				sessions, err := svc.FilterByDateRange(cmd.Context(), employeeID, start, end)
				if err != nil {
					return err
				}
				return printSessions(cmd, sessions)
			})
		},
	}
	cmd.Flags().StringVar(&employeeID, "employee", "", "employee id")
	cmd.Flags().StringVar(&from, "from", time.Now().Format(dateLayout), "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD; defaults to --from")
	_ = cmd.MarkFlagRequired("employee")
	return cmd
}

func printSessions(cmd *cobra.Command, sessions []workprogress.Session) error {
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tCOMPANY\tSTATUS\tHOURS")
	var total float64
	for _, s := range sessions {
		hours := "-"
		if s.TotalWorkHours != nil {
			hours = fmt.Sprintf("%.2f", *s.TotalWorkHours)
			total += *s.TotalWorkHours
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Date.Format(dateLayout), s.CompanyID, s.TrackerStatus, hours)
	}
	fmt.Fprintf(w, "\t\ttotal\t%.2f\n", total)
	return w.Flush()
}
