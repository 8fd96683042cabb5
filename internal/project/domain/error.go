package domain

import "errors"

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrUnsupportedFileType = errors.New("only PDF and DWG files are allowed")
	ErrInvalidProject      = errors.New("invalid project")
	ErrInvalidTransition   = errors.New("invalid status transition")
)
