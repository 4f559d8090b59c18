package timelog

import "errors"

var (
	ErrLogNotFound       = errors.New("time log not found")
	ErrLogAlreadyPaid    = errors.New("time log has already been paid")
	ErrAlreadyClockedIn  = errors.New("there is already an open clock event for today")
	ErrNotClockedIn      = errors.New("no open clock event found for today")
	ErrEmployeeNotActive = errors.New("employee is not active")
)
