package service

import "errors"

// Service layer errors. Authorization outcomes (not found / forbidden) come
// from the authz package; these cover the rest of the taxonomy.
var (
	ErrConflict           = errors.New("resource already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrFileTooLarge       = errors.New("file exceeds the upload size limit")
)
