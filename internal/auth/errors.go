package auth

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials is deliberately generic: it must not reveal which
	// of username, password or company code was wrong.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrNotFound is returned by registry lookups with no matching record.
	ErrNotFound = errors.New("auth: not found")
)

// FieldErrors maps a form field name to a human-readable message. It is the
// failure result of registration validation; every violated field is present.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "auth: validation failed"
	}
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("auth: validation failed: %s", strings.Join(fields, ", "))
}
