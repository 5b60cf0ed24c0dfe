package library

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions.
var (
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate entry")
	ErrDatabase   = errors.New("database error")
	ErrValidation = errors.New("validation failed")
)

// GameError provides context for game-related errors.
type GameError struct {
	Op     string // Operation that failed (e.g., "update game")
	GameID int64  // Game id if applicable
	Err    error  // Underlying error
}

func (e *GameError) Error() string {
	if e.GameID != 0 {
		return fmt.Sprintf("%s %d: %v", e.Op, e.GameID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GameError) Unwrap() error {
	return e.Err
}

// ValidationError reports a missing or malformed field. Its message is safe to show to clients.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// WrapDBError converts a database error to a user-friendly error.
func WrapDBError(err error, op string, id int64) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &GameError{Op: op, GameID: id, Err: ErrNotFound}
	}

	// Constraint messages differ between SQLite and PostgreSQL.
	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "UNIQUE constraint failed"),
		strings.Contains(errStr, "duplicate key value"):
		return &GameError{Op: op, GameID: id, Err: fmt.Errorf("%w: entry already exists", ErrDuplicate)}
	case strings.Contains(errStr, "FOREIGN KEY constraint failed"),
		strings.Contains(errStr, "violates foreign key constraint"):
		return &GameError{Op: op, GameID: id, Err: fmt.Errorf("%w: referenced item does not exist", ErrDatabase)}
	case strings.Contains(errStr, "no such table"),
		strings.Contains(errStr, "does not exist"):
		return &GameError{Op: op, GameID: id, Err: fmt.Errorf("%w: database not initialized", ErrDatabase)}
	}

	return &GameError{Op: op, GameID: id, Err: fmt.Errorf("%w: %v", ErrDatabase, err)}
}
