package schedule

import "time"

// TimeSlot описывает еженедельную позицию занятия: день недели и время начала.
// День недели считается от понедельника (0 = понедельник ... 6 = воскресенье).
type TimeSlot struct {
	DayOfWeek int `json:"day_of_week"`
	Hour      int `json:"hour"`
	Minute    int `json:"minute"`
}

// Validate проверяет диапазоны полей слота
func (s TimeSlot) Validate() error {
	if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
		return &ValidationError{Field: "day_of_week", Msg: "must be in range 0-6"}
	}
	if s.Hour < 0 || s.Hour > 23 {
		return &ValidationError{Field: "hour", Msg: "must be in range 0-23"}
	}
	if s.Minute < 0 || s.Minute > 59 {
		return &ValidationError{Field: "minute", Msg: "must be in range 0-59"}
	}
	return nil
}

// Resolve переводит слот в абсолютное время внутри якорной недели.
// anchorWeekStart должен быть понедельником 00:00 — нормализация недели
// лежит на вызывающем (см. WeekStart).
func Resolve(slot TimeSlot, anchorWeekStart time.Time) time.Time {
	d := anchorWeekStart.AddDate(0, 0, slot.DayOfWeek)
	return time.Date(d.Year(), d.Month(), d.Day(), slot.Hour, slot.Minute, 0, 0, d.Location())
}

// WeekStart возвращает понедельник 00:00 недели, в которую попадает t
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	d := t.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
