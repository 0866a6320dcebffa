package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"
)

func TestIsBindParameterMismatch(t *testing.T) {
	t.Run("matches bind mismatch error", func(t *testing.T) {
		err := fakeErr("pq: bind message supplies 2 parameters, but prepared statement \"\" requires 1 (08P01)")
		if !isBindParameterMismatch(err) {
			t.Fatalf("expected true for bind mismatch error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation history does not exist")
		if isBindParameterMismatch(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsUnnamedPreparedStatementMissing(t *testing.T) {
	t.Run("matches statement missing message", func(t *testing.T) {
		err := fakeErr("pq: unnamed prepared statement does not exist (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for statement missing error")
		}
	})

	t.Run("matches by 26000 code", func(t *testing.T) {
		err := fakeErr("pq: prepared statement missing (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for 26000 prepared statement error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		if isUnnamedPreparedStatementMissing(nil) {
			t.Fatalf("expected false for nil error")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get player: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("boom")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestNullableRoundTrip(t *testing.T) {
	name := "Alpha"
	if got := fromNullString(toNullString(&name)); got == nil || *got != name {
		t.Fatalf("unexpected string round trip: %v", got)
	}
	if got := fromNullString(toNullString(nil)); got != nil {
		t.Fatalf("expected nil string, got %v", *got)
	}

	level := 212
	if got := fromNullInt(toNullInt(&level)); got == nil || *got != level {
		t.Fatalf("unexpected int round trip: %v", got)
	}

	rate := 54.5
	if got := fromNullFloat(toNullFloat(&rate)); got == nil || *got != rate {
		t.Fatalf("unexpected float round trip: %v", got)
	}
}

func TestJSONBParams(t *testing.T) {
	if jsonbParam(nil).Valid {
		t.Fatalf("expected null for empty payload")
	}
	if got := jsonbParam([]byte(`{"a":1}`)); got.String != `{"a":1}` {
		t.Fatalf("unexpected payload: %q", got.String)
	}
	if got := jsonbArrayParam([]byte("null")); got != "[]" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	got := utcDate(time.Date(2026, 3, 2, 3, 0, 0, 0, loc))
	if !got.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %s", got)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
