package entity

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrLeadNotFound     = errors.New("lead not found")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrTerminalLead     = errors.New("lead is in a terminal status")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)
