package controller

import (
	"github.com/nvoronova/tutor_crm/internal/model"
	"github.com/nvoronova/tutor_crm/internal/schedule"
)

type registerRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type bulkCreateRequest struct {
	StudentName       string              `json:"student_name" validate:"required"`
	ParentName        string              `json:"parent_name"`
	StudentPhone      string              `json:"student_phone"`
	ParentPhone       string              `json:"parent_phone"`
	CourseName        string              `json:"course_name" validate:"required"`
	FirstLessonNumber int                 `json:"first_lesson_number"`
	Duration          int                 `json:"duration"`
	Slots             []schedule.TimeSlot `json:"slots" validate:"required,min=1"`
	StartDate         string              `json:"start_date" validate:"required"`
	Occurrences       int                 `json:"occurrences"`
}

// lessonPatchRequest принимает только изменяемые поля: время, номер,
// длительность и ключи серии через PATCH недоступны структурно
type lessonPatchRequest struct {
	StudentName  *string `json:"student_name"`
	ParentName   *string `json:"parent_name"`
	StudentPhone *string `json:"student_phone"`
	ParentPhone  *string `json:"parent_phone"`
	CourseName   *string `json:"course_name"`
	Description  *string `json:"description"`
}

type gridCellResponse struct {
	Day     int             `json:"day"`
	Hour    int             `json:"hour"`
	Lessons []*model.Lesson `json:"lessons"`
}

type gridResponse struct {
	WeekStart string             `json:"week_start"`
	HourFrom  int                `json:"hour_from"`
	HourTo    int                `json:"hour_to"`
	Cells     []gridCellResponse `json:"cells"`
}
