package workprogress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"backend-workhub/internal/db"
	"backend-workhub/internal/shared/validate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `id, employee_id, company_id, date, start_time, end_time, total_work_hours, tracker_status, is_deleted, created_at, updated_at`

// Broadcaster fans tracker events out to listeners of a company channel.
type Broadcaster interface {
	Broadcast(channel string, payload []byte)
}

type Service struct {
	db     db.Querier
	hub    Broadcaster
	loc    *time.Location
	policy HoursPolicy
}

func NewService(q db.Querier, hub Broadcaster, loc *time.Location, policy HoursPolicy) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if policy == "" {
		policy = PolicyOverwrite
	}
	return &Service{db: q, hub: hub, loc: loc, policy: policy}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// Today truncates now to the start of its calendar day in the service's
// reference timezone.
func (s *Service) Today(now time.Time) time.Time {
	local := now.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
}

// Start begins (or resumes) today's session for the employee.
func (s *Service) Start(ctx context.Context, employeeID, companyID string, now time.Time) (Session, error) {
	if err := validate.New().
		Required("employeeId", employeeID).
		Required("companyId", companyID).
		Err(); err != nil {
		return Session{}, err
	}

	day := s.Today(now)
	existing, err := scanSession(s.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM work_progress
		WHERE `+db.LiveAnd("employee_id = $1 AND company_id = $2 AND date = $3"),
		employeeID, companyID, day))

	var session Session
	switch {
	case errors.Is(err, db.ErrNotFound):
		session, err = s.create(ctx, employeeID, companyID, day, now)
	case err != nil:
		return Session{}, fmt.Errorf("lookup tracker: %w", err)
	case existing.TrackerStatus == StatusRunning:
		return Session{}, ErrAlreadyRunning
	default:
		session, err = s.resume(ctx, existing, now)
	}
	if err != nil {
		return Session{}, err
	}

	s.publish(EventStarted, session)
	return session, nil
}

func (s *Service) create(ctx context.Context, employeeID, companyID string, day, now time.Time) (Session, error) {
	session := Session{
		ID:            uuid.NewString(),
		EmployeeID:    employeeID,
		CompanyID:     companyID,
		Date:          day,
		StartTime:     &now,
		TrackerStatus: StatusRunning,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO work_progress (id, employee_id, company_id, date, start_time, tracker_status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at
	`, session.ID, session.EmployeeID, session.CompanyID, session.Date, now, string(session.TrackerStatus))
	if err := row.Scan(&session.CreatedAt, &session.UpdatedAt); err != nil {
		err = db.Classify(err)
		if errors.Is(err, db.ErrDuplicate) {
			// another start for the same day won the insert
			return Session{}, ErrAlreadyRunning
		}
		return Session{}, fmt.Errorf("create tracker: %w", err)
	}
	return session, nil
}

// resume reuses a stopped record. EndTime and TotalWorkHours stay as they are
// until the next Stop overwrites them.
func (s *Service) resume(ctx context.Context, session Session, now time.Time) (Session, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE work_progress
		SET start_time = $2, tracker_status = $3, updated_at = now()
		WHERE id = $1 AND tracker_status = $4 AND `+db.Live+`
		RETURNING updated_at
	`, session.ID, now, string(StatusRunning), string(StatusStopped))
	if err := row.Scan(&session.UpdatedAt); err != nil {
		if errors.Is(db.Classify(err), db.ErrNotFound) {
			return Session{}, ErrAlreadyRunning
		}
		return Session{}, fmt.Errorf("resume tracker: %w", db.Classify(err))
	}
	session.StartTime = &now
	session.TrackerStatus = StatusRunning
	return session, nil
}

// Stop closes today's running session and records the elapsed hours.
func (s *Service) Stop(ctx context.Context, employeeID string, now time.Time) (Session, error) {
	if err := validate.New().Required("employeeId", employeeID).Err(); err != nil {
		return Session{}, err
	}

	// An employee tracked under two companies on one day stops the running one first.
	session, err := scanSession(s.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM work_progress
		WHERE `+db.LiveAnd("employee_id = $1 AND date = $2")+`
		ORDER BY (tracker_status = 'Running') DESC, updated_at DESC
		LIMIT 1
	`, employeeID, s.Today(now)))
	if errors.Is(err, db.ErrNotFound) {
		return Session{}, ErrNoActiveSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup tracker: %w", err)
	}
	if session.TrackerStatus == StatusStopped {
		return Session{}, ErrAlreadyStopped
	}
	if session.StartTime == nil {
		return Session{}, fmt.Errorf("tracker %s is running without a start time", session.ID)
	}

	total := s.totalHours(session, now)
	row := s.db.QueryRow(ctx, `
		UPDATE work_progress
		SET end_time = $2, total_work_hours = $3, tracker_status = $4, updated_at = now()
		WHERE id = $1 AND tracker_status = $5 AND `+db.Live+`
		RETURNING updated_at
	`, session.ID, now, total, string(StatusStopped), string(StatusRunning))
	if err := row.Scan(&session.UpdatedAt); err != nil {
		if errors.Is(db.Classify(err), db.ErrNotFound) {
			return Session{}, ErrAlreadyStopped
		}
		return Session{}, fmt.Errorf("stop tracker: %w", db.Classify(err))
	}

	session.EndTime = &now
	session.TotalWorkHours = &total
	session.TrackerStatus = StatusStopped
	s.publish(EventStopped, session)
	return session, nil
}

func (s *Service) totalHours(session Session, now time.Time) float64 {
	hours := HoursBetween(*session.StartTime, now)
	if s.policy == PolicyAccumulate && session.TotalWorkHours != nil {
		hours += *session.TotalWorkHours
	}
	return hours
}

// HoursBetween returns the fractional hours from start to end, never negative.
func HoursBetween(start, end time.Time) float64 {
	h := end.Sub(start).Hours()
	if h < 0 {
		return 0
	}
	return h
}

// FilterByDate matches date exactly; callers pass a day already normalised
// with Today.
func (s *Service) FilterByDate(ctx context.Context, employeeID string, date time.Time) ([]Session, error) {
	return s.list(ctx, `
		SELECT `+sessionColumns+`
		FROM work_progress
		WHERE `+db.LiveAnd("employee_id = $1 AND date = $2")+`
		ORDER BY date
	`, employeeID, date)
}

// FilterByDateRange returns sessions with date in the closed interval [start, end].
func (s *Service) FilterByDateRange(ctx context.Context, employeeID string, start, end time.Time) ([]Session, error) {
	if end.Before(start) {
		return nil, validate.New().Check(false, "endDate", "endDate must not be before startDate").Err()
	}
	return s.list(ctx, `
		SELECT `+sessionColumns+`
		FROM work_progress
		WHERE `+db.LiveAnd("employee_id = $1 AND date >= $2 AND date <= $3")+`
		ORDER BY date
	`, employeeID, start, end)
}

func (s *Service) ListByCompany(ctx context.Context, companyID string) ([]Session, error) {
	return s.list(ctx, `
		SELECT `+sessionColumns+`
		FROM work_progress
		WHERE `+db.LiveAnd("company_id = $1"),
		companyID)
}

func (s *Service) ListByEmployee(ctx context.Context, employeeID string) ([]Session, error) {
	return s.list(ctx, `
		SELECT `+sessionColumns+`
		FROM work_progress
		WHERE `+db.LiveAnd("employee_id = $1"),
		employeeID)
}

func (s *Service) Get(ctx context.Context, id string) (Session, error) {
	return scanSession(s.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM work_progress
		WHERE `+db.LiveAnd("id = $1"),
		id))
}

// EmployerOf returns the company a live employee belongs to.
func (s *Service) EmployerOf(ctx context.Context, employeeID string) (string, error) {
	var companyID string
	err := s.db.QueryRow(ctx, `
		SELECT company_id FROM employees
		WHERE `+db.LiveAnd("id = $1"),
		employeeID).Scan(&companyID)
	if err != nil {
		return "", db.Classify(err)
	}
	return companyID, nil
}

// SoftDelete hides a session from every default read.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE work_progress SET is_deleted = TRUE, updated_at = now()
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

func (s *Service) list(ctx context.Context, query string, args ...any) ([]Session, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, db.Classify(err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, db.Classify(rows.Err())
}

func (s *Service) publish(eventType string, session Session) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(Event{Type: eventType, Session: session})
	if err != nil {
		log.Printf("encode tracker event: %v", err)
		return
	}
	s.hub.Broadcast(session.CompanyID, payload)
}

func scanSession(row pgx.Row) (Session, error) {
	var (
		session Session
		status  string
	)
	err := row.Scan(&session.ID, &session.EmployeeID, &session.CompanyID, &session.Date,
		&session.StartTime, &session.EndTime, &session.TotalWorkHours, &status,
		&session.IsDeleted, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return Session{}, db.Classify(err)
	}
	session.TrackerStatus = Status(status)
	return session, nil
}
