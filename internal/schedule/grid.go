package schedule

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/nvoronova/tutor_crm/internal/model"
)

// Часы недельной сетки по умолчанию, 08:00-22:00 включительно
const (
	DefaultGridHourFrom = 8
	DefaultGridHourTo   = 22
)

// Cell идентифицирует клетку недельной сетки: колонка-день (0-6 от начала
// диапазона) и строка-час
type Cell struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`
}

// Grid — раскладка занятий по клеткам недельной сетки
type Grid struct {
	HourFrom int
	HourTo   int
	Cells    map[Cell][]*model.Lesson
}

// BucketRange раскладывает занятия по клеткам сетки 7 дней x диапазон часов.
// Клетку определяет только день и час начала занятия; длительность на ключ
// клетки не влияет. Несколько занятий в одной клетке сохраняются списком по
// возрастанию времени начала. Занятия вне диапазона дней или часов — аномалия:
// пишем warn и пропускаем, ошибкой это не считается.
// Функция чистая: повторный вызов на тех же данных даёт тот же результат.
func BucketRange(logger *zap.Logger, lessons []*model.Lesson, rangeStart time.Time, hourFrom, hourTo int) *Grid {
	grid := &Grid{
		HourFrom: hourFrom,
		HourTo:   hourTo,
		Cells:    make(map[Cell][]*model.Lesson),
	}

	base := dateOnly(rangeStart)
	for _, lesson := range lessons {
		day := daysBetween(base, dateOnly(lesson.StartTime))
		hour := lesson.StartTime.Hour()

		if day < 0 || day > 6 {
			logger.Warn("lesson outside grid days, skipping",
				zap.Int64("lesson_id", lesson.ID),
				zap.Time("start_time", lesson.StartTime),
				zap.Int("day_index", day))
			continue
		}
		if hour < hourFrom || hour > hourTo {
			logger.Warn("lesson outside grid hours, skipping",
				zap.Int64("lesson_id", lesson.ID),
				zap.Time("start_time", lesson.StartTime),
				zap.Int("hour", hour))
			continue
		}

		cell := Cell{Day: day, Hour: hour}
		grid.Cells[cell] = append(grid.Cells[cell], lesson)
	}

	for _, cellLessons := range grid.Cells {
		sort.SliceStable(cellLessons, func(i, j int) bool {
			return cellLessons[i].StartTime.Before(cellLessons[j].StartTime)
		})
	}

	return grid
}

// SortedCells возвращает непустые клетки по порядку день, час
func (g *Grid) SortedCells() []Cell {
	cells := make([]Cell, 0, len(g.Cells))
	for cell := range g.Cells {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Day != cells[j].Day {
			return cells[i].Day < cells[j].Day
		}
		return cells[i].Hour < cells[j].Hour
	})
	return cells
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
