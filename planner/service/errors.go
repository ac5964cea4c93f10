package service

import "errors"

var (
	ErrMapNotFound          = errors.New("map not found")
	ErrInvalidMap           = errors.New("invalid map")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrInvalidCoordinate    = errors.New("invalid coordinate")
	ErrInvalidRequest       = errors.New("invalid request")
)
