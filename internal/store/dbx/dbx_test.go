package dbx

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapPGError(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "x_key"}
	err := MapPGError(unique)
	if !errors.Is(err, ErrUniqueViolation) {
		t.Fatalf("want ErrUniqueViolation, got %v", err)
	}
	var pg *pgconn.PgError
	if !errors.As(err, &pg) || pg.ConstraintName != "x_key" {
		t.Fatal("original PgError must remain reachable")
	}

	plain := errors.New("boom")
	if MapPGError(plain) != plain {
		t.Fatal("non-PG errors pass through untouched")
	}
	if MapPGError(nil) != nil {
		t.Fatal("nil stays nil")
	}
}

func TestExecScript(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a (x INT)")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX i ON a (x)")).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := ExecScript(context.Background(), db, "CREATE TABLE a (x INT);\n\nCREATE INDEX i ON a (x);\n"); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
