package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestNewDatabaseError_Classification(t *testing.T) {
	tests := []struct {
		name      string
		cause     error
		wantCode  int
		wantField string
	}{
		{
			name:      "unique violation",
			cause:     &pgconn.PgError{Code: "23505", ConstraintName: "idx_blog_articles_slug"},
			wantCode:  http.StatusConflict,
			wantField: "slug",
		},
		{
			name:     "wrapped foreign key violation",
			cause:    fmt.Errorf("insert junction: %w", &pgconn.PgError{Code: "23503"}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "duplicate key text fallback",
			cause:    errors.New(`ERROR: duplicate key value violates unique constraint "users_username_key"`),
			wantCode: http.StatusConflict,
		},
		{
			name:     "connection refused",
			cause:    errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			wantCode: http.StatusServiceUnavailable,
		},
		{
			name:     "row gone before update",
			cause:    errors.New("record not found"),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "unknown",
			cause:    errors.New("something odd"),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("create", "blog_article", tt.cause)
			if err.StatusCode != tt.wantCode {
				t.Fatalf("status = %d, want %d", err.StatusCode, tt.wantCode)
			}
			if tt.wantField != "" && err.Field != tt.wantField {
				t.Errorf("field = %q, want %q", err.Field, tt.wantField)
			}
			if !errors.Is(err.Cause, tt.cause) {
				t.Errorf("cause not preserved")
			}
		})
	}
}

func TestApiErr_SentinelsAndStatus(t *testing.T) {
	err := NewNotFoundError("project not found")
	if !IsNotFound(err) {
		t.Error("expected IsNotFound to match")
	}
	if StatusCode(err) != http.StatusNotFound {
		t.Errorf("StatusCode = %d", StatusCode(err))
	}
	if StatusCode(errors.New("plain")) != http.StatusInternalServerError {
		t.Error("plain errors should map to 500")
	}
	if !IsAlreadyExists(NewDatabaseError("create", "team_member", &pgconn.PgError{Code: "23505"})) {
		t.Error("expected unique violation to unwrap to ErrAlreadyExists")
	}
}

func TestGetFullError_IncludesCause(t *testing.T) {
	inner := NewMissingRequiredFieldError("title")
	outer := NewInternalErrorWithCause("create failed", inner)
	got := outer.GetFullError()
	want := "create failed: internal server error -> missing required field: Missing required field: title"
	if got != want {
		t.Errorf("GetFullError() = %q, want %q", got, want)
	}
}
