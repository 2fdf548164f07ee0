package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"resume-tailor/internal/shared/apperr"
)

func newMockStore(t *testing.T) (*pgStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPGStore(db), mock
}

func TestPGStoreDeductUsesConditionalUpdate(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`UPDATE accounts\s+SET ai_credits = ai_credits - \$1`).
		WithArgs(int64(40), "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "resume_created", "application_tailored", "ai_credits", "created_at", "updated_at"}).
			AddRow("user-1", 0, 1, 200, now, now))

	acc, err := store.Deduct(context.Background(), "user-1", 40)
	if err != nil {
		t.Fatalf("Deduct: %v", err)
	}
	if acc.AICredits != 200 || acc.ApplicationTailored != 1 {
		t.Fatalf("unexpected account: %+v", acc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreDeductZeroMatchDistinguishesCause(t *testing.T) {
	cases := []struct {
		exists bool
		cause  DeductionCause
	}{
		{exists: true, cause: CauseLowBalance},
		{exists: false, cause: CauseNoAccount},
	}
	for _, tc := range cases {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`UPDATE accounts`).
			WithArgs(int64(40), "user-1").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tc.exists))

		_, err := store.Deduct(context.Background(), "user-1", 40)
		var dErr *DeductionError
		if !errors.As(err, &dErr) || dErr.Cause != tc.cause {
			t.Fatalf("expected cause %s, got %v", tc.cause, err)
		}
		if !errors.Is(err, apperr.ErrInsufficientCredits) {
			t.Fatalf("expected insufficient credits kind, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("ExpectationsWereMet: %v", err)
		}
	}
}

func TestPGStoreCreateIgnoresExisting(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO accounts`).
		WithArgs("user-1", int64(240)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := store.Create(context.Background(), "user-1", 240)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created {
		t.Fatalf("expected conflict to report created=false")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreIncrementMissingAccount(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE accounts SET resume_created = resume_created \+ 1`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.IncrementResumeCreated(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreGetMissingAccount(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`SELECT user_id, resume_created`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	if _, err := store.Get(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
