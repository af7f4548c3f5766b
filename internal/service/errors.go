package service

import "errors"

var (
	ErrInvalidID = errors.New("invalid task id")
	ErrNotFound  = errors.New("task not found")
)
