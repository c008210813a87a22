package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend-workhub/internal/db"
	"backend-workhub/internal/shared/validate"

	"github.com/pashagolub/pgxmock/v3"
)

var subCols = []string{"id", "plan", "services", "start_date", "expiry_date", "status", "price", "is_deleted", "created_at", "updated_at"}

var (
	created = time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)
	start   = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	expiry  = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func subRow(id string) *pgxmock.Rows {
	return pgxmock.NewRows(subCols).AddRow(id, "pro", []string{"tracker", "leave"}, start, expiry, StatusActive, 49.5, false, created, created)
}

func TestCreateSubscriptionValidation(t *testing.T) {
	svc := NewService(nil)

	_, err := svc.Create(context.Background(), Input{Status: "paused"})
	var ve *validate.Errors
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := map[string]bool{}
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"plan", "services", "status", "startDate", "expiryDate", "price"} {
		if !fields[want] {
			t.Fatalf("expected %s error in %+v", want, ve.Fields)
		}
	}
}

func TestListGetDeleteSubscriptions(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)

	mock.ExpectQuery(`FROM subscriptions WHERE is_deleted = FALSE`).WillReturnRows(subRow("sub-1"))
	subs, err := svc.List(context.Background())
	if err != nil || len(subs) != 1 || len(subs[0].Services) != 2 {
		t.Fatalf("list: %v %+v", err, subs)
	}

	mock.ExpectQuery(`AND id = \$1`).WithArgs("gone").WillReturnRows(pgxmock.NewRows(subCols))
	if _, err := svc.Get(context.Background(), "gone"); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec(`UPDATE subscriptions SET is_deleted = TRUE`).WithArgs("sub-1").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	if err := svc.Delete(context.Background(), "sub-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestUpdateSubscription(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock)
	price := 59.0

	mock.ExpectQuery(`AND id = \$1`).WithArgs("sub-1").WillReturnRows(subRow("sub-1"))
	mock.ExpectQuery(`UPDATE subscriptions`).
		WithArgs("sub-1", "pro", []string{"tracker", "leave"}, start, expiry, StatusInactive, 59.0).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(created))

	sub, err := svc.Update(context.Background(), "sub-1", Input{Status: StatusInactive, Price: &price})
	if err != nil || sub.Status != StatusInactive || sub.Price != 59 {
		t.Fatalf("update: %v %+v", err, sub)
	}

	mock.ExpectQuery(`AND id = \$1`).WithArgs("sub-1").WillReturnRows(subRow("sub-1"))
	if _, err := svc.Update(context.Background(), "sub-1", Input{Services: []string{}}); err == nil {
		t.Fatalf("expected empty services to be rejected")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
