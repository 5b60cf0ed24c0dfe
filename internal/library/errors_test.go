package library

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapDBError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{"no rows", fmt.Errorf("failed to get game 3: %w", sql.ErrNoRows), ErrNotFound},
		{"sqlite unique", errors.New("UNIQUE constraint failed: sheet_cache.game_id"), ErrDuplicate},
		{"postgres unique", errors.New(`pq: duplicate key value violates unique constraint "sheet_cache_game_id_key"`), ErrDuplicate},
		{"sqlite fk", errors.New("FOREIGN KEY constraint failed"), ErrDatabase},
		{"missing table", errors.New("no such table: games"), ErrDatabase},
		{"other", errors.New("disk I/O error"), ErrDatabase},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := WrapDBError(tc.err, "get game", 3)
			assert.ErrorIs(t, err, tc.expected)

			var gameErr *GameError
			assert.True(t, errors.As(err, &gameErr))
			assert.Equal(t, "get game", gameErr.Op)
		})
	}

	assert.NoError(t, WrapDBError(nil, "noop", 0))
}

func TestGameError_Message(t *testing.T) {
	assert.Equal(t, "get game 7: not found", (&GameError{Op: "get game", GameID: 7, Err: ErrNotFound}).Error())
	assert.Equal(t, "list games: database error", (&GameError{Op: "list games", Err: ErrDatabase}).Error())
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("create: %w", &ValidationError{Field: "title", Message: "title is required"})

	assert.ErrorIs(t, err, ErrValidation)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "title is required", verr.Error())
}
