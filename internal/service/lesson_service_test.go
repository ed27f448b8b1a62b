package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nvoronova/tutor_crm/internal/model"
	"github.com/nvoronova/tutor_crm/internal/schedule"
)

// fakeLessonStore — память вместо Postgres для проверки резолвера мутаций
type fakeLessonStore struct {
	lessons map[int64]*model.Lesson
	nextID  int64

	failCreate      error
	failDeleteAfter int // удалить столько занятий, затем вернуть ошибку (-1 = не ломать)
}

func newFakeLessonStore() *fakeLessonStore {
	return &fakeLessonStore{
		lessons:         make(map[int64]*model.Lesson),
		nextID:          1,
		failDeleteAfter: -1,
	}
}

func (f *fakeLessonStore) CreateBulk(_ context.Context, lessons []*model.Lesson) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	for _, lesson := range lessons {
		stored := *lesson
		stored.ID = f.nextID
		lesson.ID = f.nextID
		f.lessons[f.nextID] = &stored
		f.nextID++
	}
	return nil
}

func (f *fakeLessonStore) GetByID(_ context.Context, userID, id int64) (*model.Lesson, error) {
	lesson, ok := f.lessons[id]
	if !ok || lesson.UserID != userID {
		return nil, nil
	}
	clone := *lesson
	return &clone, nil
}

func (f *fakeLessonStore) GetByRange(_ context.Context, userID int64, from, to time.Time) ([]*model.Lesson, error) {
	var out []*model.Lesson
	for id := int64(1); id < f.nextID; id++ {
		lesson, ok := f.lessons[id]
		if !ok || lesson.UserID != userID {
			continue
		}
		if !lesson.StartTime.Before(from) && lesson.StartTime.Before(to) {
			clone := *lesson
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeLessonStore) UpdateFields(_ context.Context, userID, id int64, patch *model.LessonPatch) (*model.Lesson, error) {
	lesson, ok := f.lessons[id]
	if !ok || lesson.UserID != userID {
		return nil, nil
	}
	if patch.StudentName != nil {
		lesson.StudentName = *patch.StudentName
	}
	if patch.ParentName != nil {
		lesson.ParentName = *patch.ParentName
	}
	if patch.StudentPhone != nil {
		lesson.StudentPhone = *patch.StudentPhone
	}
	if patch.ParentPhone != nil {
		lesson.ParentPhone = *patch.ParentPhone
	}
	if patch.CourseName != nil {
		lesson.CourseName = *patch.CourseName
	}
	if patch.Description != nil {
		lesson.Description = *patch.Description
	}
	clone := *lesson
	return &clone, nil
}

func (f *fakeLessonStore) DeleteByID(_ context.Context, userID, id int64) (int64, error) {
	lesson, ok := f.lessons[id]
	if !ok || lesson.UserID != userID {
		return 0, nil
	}
	delete(f.lessons, id)
	return 1, nil
}

func (f *fakeLessonStore) ListIDsBySeries(_ context.Context, userID int64, seriesID uuid.UUID) ([]int64, error) {
	return f.listIDs(userID, func(l *model.Lesson) bool { return l.SeriesID == seriesID })
}

func (f *fakeLessonStore) ListIDsByGroup(_ context.Context, userID int64, groupID uuid.UUID) ([]int64, error) {
	return f.listIDs(userID, func(l *model.Lesson) bool { return l.GroupID == groupID })
}

func (f *fakeLessonStore) DeleteBySeries(_ context.Context, userID int64, seriesID uuid.UUID) (int64, error) {
	return f.deleteMatching(userID, func(l *model.Lesson) bool { return l.SeriesID == seriesID })
}

func (f *fakeLessonStore) DeleteByGroup(_ context.Context, userID int64, groupID uuid.UUID) (int64, error) {
	return f.deleteMatching(userID, func(l *model.Lesson) bool { return l.GroupID == groupID })
}

func (f *fakeLessonStore) listIDs(userID int64, match func(*model.Lesson) bool) ([]int64, error) {
	var ids []int64
	for id := int64(1); id < f.nextID; id++ {
		if lesson, ok := f.lessons[id]; ok && lesson.UserID == userID && match(lesson) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeLessonStore) deleteMatching(userID int64, match func(*model.Lesson) bool) (int64, error) {
	var deleted int64
	for id := int64(1); id < f.nextID; id++ {
		lesson, ok := f.lessons[id]
		if !ok || lesson.UserID != userID || !match(lesson) {
			continue
		}
		if f.failDeleteAfter >= 0 && deleted == int64(f.failDeleteAfter) {
			return deleted, errors.New("connection reset")
		}
		delete(f.lessons, id)
		deleted++
	}
	return deleted, nil
}

func testRequest() schedule.SeriesRequest {
	return schedule.SeriesRequest{
		StudentName:       "Маша Иванова",
		CourseName:        "Математика",
		FirstLessonNumber: 1,
		Duration:          60,
		Slots: []schedule.TimeSlot{
			{DayOfWeek: 1, Hour: 10, Minute: 0},
			{DayOfWeek: 3, Hour: 15, Minute: 0},
		},
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestService(store LessonStore) *LessonService {
	return NewLessonService(store, schedule.DefaultGridHourFrom, schedule.DefaultGridHourTo, zap.NewNop())
}

func mustCreateSeries(t *testing.T, svc *LessonService) []*model.Lesson {
	t.Helper()
	lessons, err := svc.CreateSeries(context.Background(), 7, testRequest())
	if err != nil {
		t.Fatalf("create series: %v", err)
	}
	return lessons
}

func TestCreateSeriesPersists(t *testing.T) {
	store := newFakeLessonStore()
	svc := newTestService(store)

	lessons := mustCreateSeries(t, svc)

	if len(lessons) != 104 {
		t.Fatalf("expected 104 lessons, got %d", len(lessons))
	}
	if len(store.lessons) != 104 {
		t.Fatalf("expected 104 persisted lessons, got %d", len(store.lessons))
	}
	for _, lesson := range lessons {
		if lesson.UserID != 7 {
			t.Fatalf("lesson %d not stamped with user id", lesson.ID)
		}
	}
}

func TestCreateSeriesValidationBeforeStorage(t *testing.T) {
	store := newFakeLessonStore()
	store.failCreate = errors.New("must not be called")
	svc := newTestService(store)

	req := testRequest()
	req.Duration = 0
	_, err := svc.CreateSeries(context.Background(), 7, req)

	var validationErr *schedule.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCreateSeriesPersistenceError(t *testing.T) {
	store := newFakeLessonStore()
	store.failCreate = errors.New("deadlock detected")
	svc := newTestService(store)

	_, err := svc.CreateSeries(context.Background(), 7, testRequest())

	var persistenceErr *PersistenceError
	if !errors.As(err, &persistenceErr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}

func TestDeleteLessonKeepsSiblings(t *testing.T) {
	store := newFakeLessonStore()
	svc := newTestService(store)
	lessons := mustCreateSeries(t, svc)

	// вторник #2 — третий элемент week-major порядка
	target := lessons[2]
	if target.LessonNumber != 2 {
		t.Fatalf("expected lesson number 2, got %d", target.LessonNumber)
	}
	if err := svc.DeleteLesson(context.Background(), 7, target.ID); err != nil {
		t.Fatalf("delete lesson: %v", err)
	}

	var tuesdayNumbers []int
	for _, lesson := range store.lessons {
		if lesson.SeriesID == target.SeriesID {
			tuesdayNumbers = append(tuesdayNumbers, lesson.LessonNumber)
		}
	}
	if len(tuesdayNumbers) != 51 {
		t.Fatalf("expected 51 remaining tuesday lessons, got %d", len(tuesdayNumbers))
	}
	for _, n := range tuesdayNumbers {
		if n == 2 {
			t.Fatalf("deleted lesson number still present")
		}
	}

	// вторая серия (четверг) не тронута
	thursday := 0
	for _, lesson := range store.lessons {
		if lesson.SeriesID != target.SeriesID {
			thursday++
		}
	}
	if thursday != 52 {
		t.Fatalf("expected 52 thursday lessons untouched, got %d", thursday)
	}
}

func TestDeleteLessonNotFound(t *testing.T) {
	svc := newTestService(newFakeLessonStore())

	err := svc.DeleteLesson(context.Background(), 7, 999)

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDeleteSeriesSlotScope(t *testing.T) {
	store := newFakeLessonStore()
	svc := newTestService(store)
	lessons := mustCreateSeries(t, svc)

	thursday := lessons[1] // четверг #1
	if err := svc.DeleteSeries(context.Background(), 7, thursday.ID, ScopeSlot); err != nil {
		t.Fatalf("delete series: %v", err)
	}

	if len(store.lessons) != 52 {
		t.Fatalf("expected 52 lessons left, got %d", len(store.lessons))
	}
	for _, lesson := range store.lessons {
		if lesson.SeriesID == thursday.SeriesID {
			t.Fatalf("thursday track not fully removed")
		}
	}
}

func TestDeleteSeriesGroupScope(t *testing.T) {
	store := newFakeLessonStore()
	svc := newTestService(store)
	lessons := mustCreateSeries(t, svc)

	// вторая bulk-заявка другого ученика не должна пострадать
	other := testRequest()
	other.StudentName = "Петя Сидоров"
	if _, err := svc.CreateSeries(context.Background(), 7, other); err != nil {
		t.Fatalf("create second series: %v", err)
	}

	if err := svc.DeleteSeries(context.Background(), 7, lessons[0].ID, ScopeGroup); err != nil {
		t.Fatalf("delete group: %v", err)
	}

	if len(store.lessons) != 104 {
		t.Fatalf("expected second request untouched, got %d lessons", len(store.lessons))
	}
	for _, lesson := range store.lessons {
		if lesson.GroupID == lessons[0].GroupID {
			t.Fatalf("group not fully removed")
		}
	}
}

func TestDeleteSeriesPartialFailure(t *testing.T) {
	store := newFakeLessonStore()
	svc := newTestService(store)
	lessons := mustCreateSeries(t, svc)

	store.failDeleteAfter = 10
	err := svc.DeleteSeries(context.Background(), 7, lessons[0].ID, ScopeSlot)

	var partial *PartialDeletionError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialDeletionError, got %v", err)
	}
	if partial.SeriesKey != lessons[0].SeriesID {
		t.Fatalf("partial error carries wrong series key")
	}
	if partial.Deleted != 10 {
		t.Fatalf("expected 10 deleted, got %d", partial.Deleted)
	}
	if len(partial.Remaining) != 42 {
		t.Fatalf("expected 42 remaining ids for reconciliation, got %d", len(partial.Remaining))
	}
}

func TestDeleteSeriesCleanFailure(t *testing.T) {
	store := newFakeLessonStore()
	svc := newTestService(store)
	lessons := mustCreateSeries(t, svc)

	store.failDeleteAfter = 0
	err := svc.DeleteSeries(context.Background(), 7, lessons[0].ID, ScopeSlot)

	var persistenceErr *PersistenceError
	if !errors.As(err, &persistenceErr) {
		t.Fatalf("expected clean failure to be PersistenceError, got %v", err)
	}
}

func TestUpdateLessonMutableFieldsOnly(t *testing.T) {
	store := newFakeLessonStore()
	svc := newTestService(store)
	lessons := mustCreateSeries(t, svc)

	target := lessons[0]
	description := "перенесли тему: дроби"
	updated, err := svc.UpdateLesson(context.Background(), 7, target.ID, &model.LessonPatch{
		Description: &description,
	})
	if err != nil {
		t.Fatalf("update lesson: %v", err)
	}

	if updated.Description != description {
		t.Fatalf("description not updated")
	}
	if updated.LessonNumber != target.LessonNumber || !updated.StartTime.Equal(target.StartTime) {
		t.Fatalf("immutable fields changed")
	}
	if updated.StudentName != target.StudentName {
		t.Fatalf("unpatched field changed")
	}

	// сосед по серии не изменился
	sibling, err := svc.GetLesson(context.Background(), 7, lessons[2].ID)
	if err != nil {
		t.Fatalf("get sibling: %v", err)
	}
	if sibling.Description != "" {
		t.Fatalf("sibling description mutated")
	}
}

func TestBucketWeek(t *testing.T) {
	store := newFakeLessonStore()
	svc := newTestService(store)
	mustCreateSeries(t, svc)

	weekStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	grid, err := svc.BucketWeek(context.Background(), 7, weekStart)
	if err != nil {
		t.Fatalf("bucket week: %v", err)
	}

	if len(grid.Cells) != 2 {
		t.Fatalf("expected 2 occupied cells in first week, got %d", len(grid.Cells))
	}
	if got := grid.Cells[schedule.Cell{Day: 1, Hour: 10}]; len(got) != 1 {
		t.Fatalf("expected tuesday lesson at (1,10)")
	}
	if got := grid.Cells[schedule.Cell{Day: 3, Hour: 15}]; len(got) != 1 {
		t.Fatalf("expected thursday lesson at (3,15)")
	}
}
