package domain

import (
	"errors"
	"strconv"
	"testing"
)

func TestInputError(t *testing.T) {
	_, parseErr := strconv.Atoi("abc")
	err := NewInputError("/tmp/value.txt", "abc", parseErr)

	if !errors.Is(err, ErrInvalidValue) {
		t.Error("expected errors.Is(err, ErrInvalidValue)")
	}
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Error("expected InputError to unwrap to strconv.ErrSyntax")
	}

	want := `/tmp/value.txt: cannot use "abc": strconv.Atoi: parsing "abc": invalid syntax`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("server.port", "must be between 1 and 65535")

	want := "validation error: server.port: must be between 1 and 65535"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var ve *ValidationError
	if !errors.As(error(err), &ve) || ve.Field != "server.port" {
		t.Errorf("errors.As failed or wrong field: %+v", ve)
	}
}
