package api

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"github.com/FocuswithJustin/ChurchProjection/internal/server"
)

// Request parameter limits.
const (
	MaxQueryLength = 256
	MaxBookLength  = 64
)

var versionID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// paramError is a client mistake in a query parameter.
type paramError struct {
	Param   string
	Message string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s: %s", e.Param, e.Message)
}

// ValidateVersionID reports whether id can name a loaded version: the file
// name stem of a source, letters, digits, '-' and '_' only.
func ValidateVersionID(id string) error {
	if !versionID.MatchString(id) {
		return &paramError{Param: "version", Message: "must be 1-32 letters, digits, '-' or '_'"}
	}
	return nil
}

// versionParam returns ?version= or fallback when it is absent.
func versionParam(q url.Values, fallback string) (string, error) {
	v := q.Get("version")
	if v == "" {
		return fallback, nil
	}
	if err := ValidateVersionID(v); err != nil {
		return "", err
	}
	return v, nil
}

func bookParam(q url.Values) (string, error) {
	book := server.LimitStringLength(server.SanitizeUserInput(q.Get("book")), MaxBookLength)
	if book == "" {
		return "", &paramError{Param: "book", Message: "is required"}
	}
	return book, nil
}

func positiveIntParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, &paramError{Param: name, Message: "is required"}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &paramError{Param: name, Message: "must be a positive integer"}
	}
	return n, nil
}
