package models

import "errors"

var (
	// ErrDuplicateEmail — пользователь с таким email уже зарегистрирован.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials — email не найден или пароль не совпал.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotFound — пост или пользователь не найден.
	ErrNotFound = errors.New("not found")
	// ErrAuthRequired — действие доступно только после входа.
	ErrAuthRequired = errors.New("authentication required")
)
