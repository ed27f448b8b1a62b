package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Ошибки аутентификации
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)

// NotFoundError — целевое занятие не существует или уже удалено
type NotFoundError struct {
	LessonID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("lesson %d not found", e.LessonID)
}

// PersistenceError — сбой хранилища; попытка записи серии целиком считается
// не состоявшейся
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// PartialDeletionError — удаление серии прошло не полностью. Вызывающему
// нужны ключ серии и оставшиеся ID для ручной сверки: повторная bulk-заявка
// здесь не лекарство.
type PartialDeletionError struct {
	SeriesKey uuid.UUID
	Deleted   int64
	Remaining []int64
	Err       error
}

func (e *PartialDeletionError) Error() string {
	return fmt.Sprintf("series %s deleted partially: %d removed, %d remaining",
		e.SeriesKey, e.Deleted, len(e.Remaining))
}

func (e *PartialDeletionError) Unwrap() error {
	return e.Err
}
