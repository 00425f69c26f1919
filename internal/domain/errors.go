package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrNotMember          = errors.New("user is not a chat member")
	ErrAlreadyMember      = errors.New("user is already a chat member")
	ErrInvalidChatType    = errors.New("operation not allowed for this chat type")
	ErrInvalidMembership  = errors.New("invalid chat membership")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrIntegrityMismatch  = errors.New("stored content does not match its hash")
)
