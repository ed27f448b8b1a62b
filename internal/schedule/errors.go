package schedule

import "fmt"

// ValidationError описывает некорректные входные данные генерации серии.
// Возвращается до любого обращения к хранилищу.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Msg)
}
