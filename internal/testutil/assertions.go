package testutil

import (
	"errors"
	"testing"

	apperrors "spendpal/internal/errors"
)

// AssertAppError checks that err is an *AppError carrying the expected
// code, e.g. EXPENSE_NOT_FOUND or ANALYSIS_COOLING_DOWN. Matching on the
// code keeps tests stable when messages are reworded.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
