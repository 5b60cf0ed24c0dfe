package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrCredentials = errors.New("IGDB client id or secret is missing")
	ErrAuth        = errors.New("token endpoint returned no access token")
	ErrNotFound    = errors.New("game not found on IGDB")
	ErrUpstream    = errors.New("catalog request failed")
	ErrEmptyQuery  = errors.New("query is required")
)

// Error records the catalog operation that failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func upstream(op string, err error) error {
	return &Error{Op: op, Err: fmt.Errorf("%w: %v", ErrUpstream, err)}
}
