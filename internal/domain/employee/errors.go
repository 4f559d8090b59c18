package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmployeeInactive = errors.New("employee is not active")
	ErrPINNotRecognized = errors.New("pin not recognized")
	ErrPINAlreadyUsed   = errors.New("pin is already assigned to another employee")
)
