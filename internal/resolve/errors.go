package resolve

import (
	"errors"
	"strings"
)

var (
	// ErrMissing matches every *MissingError.
	ErrMissing = errors.New("missing required values")

	// ErrInvalidChoice is returned for a consensus or deploy mode outside
	// the supported set.
	ErrInvalidChoice = errors.New("invalid choice")

	// ErrKeyNotFound is returned by Get when the path does not exist.
	ErrKeyNotFound = errors.New("key not found")
)

// MissingKind says what was missing.
type MissingKind string

const (
	// KindOption is a required new-config option.
	KindOption MissingKind = "option"
	// KindKey is a required document key.
	KindKey MissingKind = "key"
)

// MissingError lists required options or document keys that were absent.
type MissingError struct {
	Kind  MissingKind
	Names []string
}

func (e *MissingError) Error() string {
	names := strings.Join(e.Names, " ")
	if e.Kind == KindOption {
		return "These required options are missing: " + names
	}
	return "required vars missing: " + names
}

// Is lets errors.Is(err, ErrMissing) match.
func (e *MissingError) Is(target error) bool {
	return target == ErrMissing
}
