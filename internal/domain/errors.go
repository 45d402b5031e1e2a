package domain

import "errors"

var (
	ErrNoCredentials       = errors.New("no google credentials stored")
	ErrNoInstruction       = errors.New("no instruction found in AI response")
	ErrRequestInFlight     = errors.New("request already in flight")
	ErrEmptyMessage        = errors.New("empty message")
	ErrFileTooLarge        = errors.New("file exceeds size limit")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
