package leave

import (
	"context"
	"fmt"
	"time"

	"backend-workhub/internal/db"
	"backend-workhub/internal/shared/validate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const leaveColumns = `id, employee_id, company_id, leave_apply, leave_from, leave_to, leave_type, total_days, status, is_deleted, created_at, updated_at`

type Service struct {
	db db.Querier
}

func NewService(q db.Querier) *Service {
	return &Service{db: q}
}

// Apply records a leave request. An empty status defaults to Pending.
func (s *Service) Apply(ctx context.Context, req ApplyRequest) (Leave, error) {
	if req.Status == "" {
		req.Status = StatusPending
	}
	v := validate.New().
		Required("employeeId", req.EmployeeID).
		Required("companyId", req.CompanyID).
		Check(req.LeaveApply != nil, "leaveApply", "Invalid leave application date").
		Check(req.LeaveFrom != nil, "leaveFrom", "Invalid leave start date").
		Check(req.LeaveTo != nil, "leaveTo", "Invalid leave end date").
		Required("leaveType", req.LeaveType).
		Check(req.TotalDays >= 1, "totalDays", "Total days must be at least 1").
		OneOf("status", req.Status, statuses...)
	if req.LeaveFrom != nil && req.LeaveTo != nil {
		v.Check(!req.LeaveTo.Before(req.LeaveFrom.Time), "leaveTo", "leaveTo must not be before leaveFrom")
	}
	if err := v.Err(); err != nil {
		return Leave{}, err
	}

	l := Leave{
		ID:         uuid.NewString(),
		EmployeeID: req.EmployeeID,
		CompanyID:  req.CompanyID,
		LeaveApply: req.LeaveApply.Resolve(time.UTC),
		LeaveFrom:  req.LeaveFrom.Resolve(time.UTC),
		LeaveTo:    req.LeaveTo.Resolve(time.UTC),
		LeaveType:  req.LeaveType,
		TotalDays:  req.TotalDays,
		Status:     req.Status,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO leaves (id, employee_id, company_id, leave_apply, leave_from, leave_to, leave_type, total_days, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at
	`, l.ID, l.EmployeeID, l.CompanyID, l.LeaveApply, l.LeaveFrom, l.LeaveTo, l.LeaveType, l.TotalDays, l.Status)
	if err := row.Scan(&l.CreatedAt, &l.UpdatedAt); err != nil {
		return Leave{}, fmt.Errorf("apply leave: %w", db.Classify(err))
	}
	return l, nil
}

func (s *Service) List(ctx context.Context) ([]Leave, error) {
	return s.list(ctx, `
		SELECT `+leaveColumns+`
		FROM leaves WHERE `+db.Live+`
		ORDER BY leave_apply DESC
	`)
}

func (s *Service) ListByCompany(ctx context.Context, companyID string) ([]Leave, error) {
	return s.list(ctx, `
		SELECT `+leaveColumns+`
		FROM leaves WHERE `+db.LiveAnd("company_id = $1")+`
		ORDER BY leave_apply DESC
	`, companyID)
}

func (s *Service) ListByEmployee(ctx context.Context, employeeID string) ([]Leave, error) {
	return s.list(ctx, `
		SELECT `+leaveColumns+`
		FROM leaves WHERE `+db.LiveAnd("employee_id = $1")+`
		ORDER BY leave_apply DESC
	`, employeeID)
}

func (s *Service) Get(ctx context.Context, id string) (Leave, error) {
	return scanLeave(s.db.QueryRow(ctx, `
		SELECT `+leaveColumns+`
		FROM leaves WHERE `+db.LiveAnd("id = $1"),
		id))
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Leave, error) {
	if err := validate.New().OneOf("status", status, statuses...).Err(); err != nil {
		return Leave{}, err
	}
	l, err := scanLeave(s.db.QueryRow(ctx, `
		UPDATE leaves SET status = $2, updated_at = now()
		WHERE id = $1 AND `+db.Live+`
		RETURNING `+leaveColumns,
		id, status))
	if err != nil {
		return Leave{}, fmt.Errorf("update leave status: %w", err)
	}
	return l, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE leaves SET is_deleted = TRUE, updated_at = now()
		WHERE id = $1 AND `+db.Live,
		id)
	if err != nil {
		return db.Classify(err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (s *Service) list(ctx context.Context, query string, args ...any) ([]Leave, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	leaves := []Leave{}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, l)
	}
	return leaves, db.Classify(rows.Err())
}

func scanLeave(row pgx.Row) (Leave, error) {
	var l Leave
	err := row.Scan(&l.ID, &l.EmployeeID, &l.CompanyID, &l.LeaveApply, &l.LeaveFrom, &l.LeaveTo,
		&l.LeaveType, &l.TotalDays, &l.Status, &l.IsDeleted, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return Leave{}, db.Classify(err)
	}
	return l, nil
}
