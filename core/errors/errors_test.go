package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      *NotFoundError
		wantMsg  string
		wantBase error
	}{
		{
			name:     "with ID",
			err:      &NotFoundError{Resource: "version", ID: "NKJV"},
			wantMsg:  "version not found: NKJV",
			wantBase: ErrNotFound,
		},
		{
			name:     "without ID",
			err:      &NotFoundError{Resource: "source directory"},
			wantMsg:  "source directory not found",
			wantBase: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantBase) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantBase)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidation("server.port", "must be between 1 and 65535")
	if got, want := err.Error(), "validation failed for server.port: must be between 1 and 65535"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !Is(err, ErrInvalidInput) {
		t.Error("expected ValidationError to match ErrInvalidInput")
	}

	bare := &ValidationError{Message: "invalid format"}
	if got, want := bare.Error(), "validation failed: invalid format"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIOError(t *testing.T) {
	underlying := fmt.Errorf("permission denied")

	withPath := NewIO("open", "/assets/bible/NKJV.xml", underlying)
	if got, want := withPath.Error(), "failed to open /assets/bible/NKJV.xml: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if withPath.Unwrap() != underlying {
		t.Error("Unwrap() should return the underlying error")
	}

	noPath := &IOError{Operation: "read", Err: underlying}
	if got, want := noPath.Error(), "failed to read: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name    string
		err     *ParseError
		wantMsg string
	}{
		{
			name:    "path and line",
			err:     NewParse("XML", "SWAB.xml", 12, "unexpected EOF"),
			wantMsg: "failed to parse XML at SWAB.xml:12: unexpected EOF",
		},
		{
			name:    "path only",
			err:     NewParse("XML", "SWAB.xml", 0, "unexpected EOF"),
			wantMsg: "failed to parse XML at SWAB.xml: unexpected EOF",
		},
		{
			name:    "no path",
			err:     NewParse("reference", "", 0, "unexpected token"),
			wantMsg: "failed to parse reference: unexpected token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if !errors.Is(tt.err, ErrInvalidInput) {
				t.Error("expected ParseError to match ErrInvalidInput")
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("Wrapf(nil) should return nil")
	}

	base := NewNotFound("version", "KJV")
	wrapped := Wrapf(base, "load %s", "KJV")
	if got, want := wrapped.Error(), "load KJV: version not found: KJV"; got != want {
		t.Errorf("Wrapf() = %q, want %q", got, want)
	}

	var nf *NotFoundError
	if !As(wrapped, &nf) {
		t.Fatal("As() should find NotFoundError in chain")
	}
	if nf.ID != "KJV" {
		t.Errorf("ID = %q, want KJV", nf.ID)
	}
	if !Is(Wrap(base, "outer"), ErrNotFound) {
		t.Error("Is() should see through Wrap")
	}
}
