package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUndefinedTableMatchesWrappedPgError(t *testing.T) {
	err := fmt.Errorf("failed to list bookings: %w", &pgconn.PgError{Code: "42P01"})
	if !IsUndefinedTable(err) {
		t.Fatalf("expected wrapped 42P01 to be detected")
	}
	if IsUniqueViolation(err) {
		t.Fatalf("expected 42P01 not to be a unique violation")
	}
}

func TestIsUndefinedTableIgnoresOtherErrors(t *testing.T) {
	if IsUndefinedTable(errors.New("relation does not exist")) {
		t.Fatalf("expected plain error to be ignored")
	}
	if IsUndefinedTable(nil) {
		t.Fatalf("expected nil to be ignored")
	}
}
