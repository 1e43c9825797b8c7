package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS state").WillReturnResult(sqlmock.NewResult(0, 0))
	var gotDriver, gotDSN string
	restore := OverrideSQLOpen(func(driver, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driver, dsn
		return db, nil
	})
	t.Cleanup(restore)

	store, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if gotDriver != defaultDriver || gotDSN != defaultDSN {
		t.Fatalf("unexpected open args %q %q", gotDriver, gotDSN)
	}
	return store, mock
}

func TestStoreSaveUpserts(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO state").
		WithArgs("users", []byte(`[]`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Save(context.Background(), "users", []byte(`[]`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreLoad(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("SELECT payload FROM state").
		WithArgs("payments").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(`[{"id":"pay-1"}]`)))
	mock.ExpectQuery("SELECT payload FROM state").
		WithArgs("complaints").
		WillReturnError(sql.ErrNoRows)

	payload, ok, err := store.Load(context.Background(), "payments")
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if string(payload) != `[{"id":"pay-1"}]` {
		t.Fatalf("unexpected payload %s", payload)
	}
	if _, ok, err := store.Load(context.Background(), "complaints"); err != nil || ok {
		t.Fatalf("expected missing bucket, got ok=%v err=%v", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("boom")
	mock.ExpectExec("DELETE FROM state").WithArgs("current_user").WillReturnError(boom)
	mock.ExpectQuery("SELECT payload FROM state").WithArgs("users").WillReturnError(boom)

	if err := store.Delete(context.Background(), "current_user"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped delete error, got %v", err)
	}
	if _, _, err := store.Load(context.Background(), "users"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped load error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNewStoreFailsWhenTableCannotBeCreated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS state").WillReturnError(errors.New("denied"))
	mock.ExpectClose()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	if _, err := NewStore(context.Background(), "postgres://example/rental"); err == nil {
		t.Fatalf("expected ensure table failure")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNewStoreOpenError(t *testing.T) {
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return nil, errors.New("no driver") })
	defer restore()
	if _, err := NewStore(context.Background(), "dsn"); err == nil {
		t.Fatalf("expected open error")
	}
}
