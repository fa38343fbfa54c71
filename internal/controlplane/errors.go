package controlplane

import (
	"errors"

	"github.com/daniswara/board/internal/board"
)

// Sentinel errors for control plane operations.
var (
	ErrTaskNotFound    = board.ErrTaskNotFound
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidDivision = errors.New("invalid division")
)
