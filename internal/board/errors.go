package board

import "errors"

// Sentinel errors for board operations.
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrNoStartDate  = errors.New("task has no readable start date")
)
