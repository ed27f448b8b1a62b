package model

import (
	"time"

	"github.com/google/uuid"
)

// Lesson представляет одно конкретное занятие из серии.
// SeriesID объединяет занятия одного еженедельного слота (свой независимый
// счётчик номеров), GroupID — все занятия одной bulk-заявки.
// LessonNumber, StartTime и Duration после создания не меняются.
type Lesson struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	SeriesID     uuid.UUID `json:"series_id"`
	GroupID      uuid.UUID `json:"group_id"`
	StudentName  string    `json:"student_name"`
	ParentName   string    `json:"parent_name"`
	StudentPhone string    `json:"student_phone"`
	ParentPhone  string    `json:"parent_phone"`
	CourseName   string    `json:"course_name"`
	LessonNumber int       `json:"lesson_number"`
	StartTime    time.Time `json:"start_time"`
	Duration     int       `json:"duration"` // длительность в минутах
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

// LessonPatch описывает частичное обновление изменяемых полей занятия.
// Номер, время начала, длительность и идентификаторы серии сюда не входят.
type LessonPatch struct {
	StudentName  *string `json:"student_name"`
	ParentName   *string `json:"parent_name"`
	StudentPhone *string `json:"student_phone"`
	ParentPhone  *string `json:"parent_phone"`
	CourseName   *string `json:"course_name"`
	Description  *string `json:"description"`
}
