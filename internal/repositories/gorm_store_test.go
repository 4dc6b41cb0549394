package repositories

import (
	"context"
	"testing"
	"time"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockGorm(t *testing.T) (GormStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return NewGormStore(gdb), mock
}

func TestGormStore_CompareAndSwapStatus(t *testing.T) {
	store, mock := newMockGorm(t)
	now := time.Date(2025, 3, 10, 11, 40, 0, 0, time.UTC)
	update := models.StatusUpdate{TripID: 12, NewStatus: models.StatusCompleted, ActualArrival: &now}

	mock.ExpectExec(`UPDATE "trips" SET`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "trips" SET`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := store.CompareAndSwapStatus(context.Background(), update, models.StatusInProgress)
	if err != nil || !ok {
		t.Fatalf("first swap: got (%v, %v) want (true, nil)", ok, err)
	}
	ok, err = store.CompareAndSwapStatus(context.Background(), update, models.StatusInProgress)
	if err != nil || ok {
		t.Fatalf("stale swap: got (%v, %v) want (false, nil)", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGormStore_GetTripNotFound(t *testing.T) {
	store, mock := newMockGorm(t)
	mock.ExpectQuery(`SELECT \* FROM "trips"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := store.GetTrip(context.Background(), 5); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
