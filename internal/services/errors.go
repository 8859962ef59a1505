package services

import (
	"errors"
	"fmt"
	"time"

	"alexandread/internal/models"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error - ошибка сервиса с текстом для клиента. errors.Is сравнивает по Kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func fail(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Clock - источник текущего времени; в тестах подменяется.
type Clock func() time.Time

func (c Clock) today() models.Date {
	if c == nil {
		return models.NewDate(time.Now())
	}
	return models.NewDate(c())
}

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
