package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nvoronova/tutor_crm/internal/model"
	"github.com/nvoronova/tutor_crm/internal/repository/base"
)

const lessonColumns = `id, user_id, series_id, group_id, student_name, parent_name, student_phone, parent_phone, course_name, lesson_number, start_time, duration_minutes, description, created_at`

// LessonRepository управляет занятиями в базе данных
type LessonRepository struct {
	*base.Repository
	logger *zap.Logger
}

// NewLessonRepository создаёт новый репозиторий занятий
func NewLessonRepository(pool *pgxpool.Pool, logger *zap.Logger) *LessonRepository {
	return &LessonRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

func scanLesson(row pgx.Row, lesson *model.Lesson) error {
	return row.Scan(
		&lesson.ID,
		&lesson.UserID,
		&lesson.SeriesID,
		&lesson.GroupID,
		&lesson.StudentName,
		&lesson.ParentName,
		&lesson.StudentPhone,
		&lesson.ParentPhone,
		&lesson.CourseName,
		&lesson.LessonNumber,
		&lesson.StartTime,
		&lesson.Duration,
		&lesson.Description,
		&lesson.CreatedAt,
	)
}

// CreateBulk сохраняет всю серию занятий в одной транзакции.
// Либо записывается вся серия, либо ничего: читатели никогда не видят
// частично созданную серию.
func (r *LessonRepository) CreateBulk(ctx context.Context, lessons []*model.Lesson) error {
	if len(lessons) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin bulk insert: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO lessons (user_id, series_id, group_id, student_name, parent_name, student_phone, parent_phone, course_name, lesson_number, start_time, duration_minutes, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`

	batch := &pgx.Batch{}
	for _, lesson := range lessons {
		batch.Queue(
			query,
			lesson.UserID,
			lesson.SeriesID,
			lesson.GroupID,
			lesson.StudentName,
			lesson.ParentName,
			lesson.StudentPhone,
			lesson.ParentPhone,
			lesson.CourseName,
			lesson.LessonNumber,
			lesson.StartTime,
			lesson.Duration,
			lesson.Description,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for _, lesson := range lessons {
		if err := results.QueryRow().Scan(&lesson.ID, &lesson.CreatedAt); err != nil {
			results.Close()
			return fmt.Errorf("insert lesson: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit bulk insert: %w", err)
	}

	r.logger.Debug("lesson series persisted",
		zap.Int("count", len(lessons)),
		zap.String("group_id", lessons[0].GroupID.String()))

	return nil
}

// GetByID получает занятие пользователя по ID
func (r *LessonRepository) GetByID(ctx context.Context, userID, id int64) (*model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE id = $1 AND user_id = $2
	`

	var lesson model.Lesson
	err := scanLesson(r.QueryRow(ctx, query, id, userID), &lesson)
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get lesson by id: %w", err)
	}

	return &lesson, nil
}

// GetByRange получает занятия пользователя со временем начала в [from, to)
func (r *LessonRepository) GetByRange(ctx context.Context, userID int64, from, to time.Time) ([]*model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE user_id = $1
		  AND start_time >= $2
		  AND start_time < $3
		ORDER BY start_time
	`

	rows, err := r.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get lessons by range: %w", err)
	}
	defer rows.Close()

	var lessons []*model.Lesson
	for rows.Next() {
		var lesson model.Lesson
		if err := scanLesson(rows, &lesson); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, &lesson)
	}

	return lessons, rows.Err()
}

// UpdateFields обновляет только изменяемые поля занятия.
// Номер, время начала, длительность и идентификаторы серии запрос не трогает.
func (r *LessonRepository) UpdateFields(ctx context.Context, userID, id int64, patch *model.LessonPatch) (*model.Lesson, error) {
	query := `
		UPDATE lessons
		SET student_name  = COALESCE($3, student_name),
		    parent_name   = COALESCE($4, parent_name),
		    student_phone = COALESCE($5, student_phone),
		    parent_phone  = COALESCE($6, parent_phone),
		    course_name   = COALESCE($7, course_name),
		    description   = COALESCE($8, description)
		WHERE id = $1 AND user_id = $2
		RETURNING ` + lessonColumns + `
	`

	var lesson model.Lesson
	err := scanLesson(r.QueryRow(
		ctx, query,
		id,
		userID,
		patch.StudentName,
		patch.ParentName,
		patch.StudentPhone,
		patch.ParentPhone,
		patch.CourseName,
		patch.Description,
	), &lesson)

	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update lesson: %w", err)
	}

	return &lesson, nil
}

// DeleteByID удаляет ровно одно занятие, соседей по серии не трогая
func (r *LessonRepository) DeleteByID(ctx context.Context, userID, id int64) (int64, error) {
	query := `DELETE FROM lessons WHERE id = $1 AND user_id = $2`

	affected, err := r.ExecAffected(ctx, query, id, userID)
	if err != nil {
		return 0, fmt.Errorf("delete lesson: %w", err)
	}

	return affected, nil
}

// ListIDsBySeries возвращает ID всех занятий серии одного слота
func (r *LessonRepository) ListIDsBySeries(ctx context.Context, userID int64, seriesID uuid.UUID) ([]int64, error) {
	query := `SELECT id FROM lessons WHERE user_id = $1 AND series_id = $2 ORDER BY id`
	return r.listIDs(ctx, query, userID, seriesID)
}

// ListIDsByGroup возвращает ID всех занятий bulk-заявки
func (r *LessonRepository) ListIDsByGroup(ctx context.Context, userID int64, groupID uuid.UUID) ([]int64, error) {
	query := `SELECT id FROM lessons WHERE user_id = $1 AND group_id = $2 ORDER BY id`
	return r.listIDs(ctx, query, userID, groupID)
}

// DeleteBySeries удаляет все занятия серии одного слота одним запросом
func (r *LessonRepository) DeleteBySeries(ctx context.Context, userID int64, seriesID uuid.UUID) (int64, error) {
	query := `DELETE FROM lessons WHERE user_id = $1 AND series_id = $2`

	affected, err := r.ExecAffected(ctx, query, userID, seriesID)
	if err != nil {
		return 0, fmt.Errorf("delete lessons by series_id: %w", err)
	}

	return affected, nil
}

// DeleteByGroup удаляет все занятия bulk-заявки одним запросом
func (r *LessonRepository) DeleteByGroup(ctx context.Context, userID int64, groupID uuid.UUID) (int64, error) {
	query := `DELETE FROM lessons WHERE user_id = $1 AND group_id = $2`

	affected, err := r.ExecAffected(ctx, query, userID, groupID)
	if err != nil {
		return 0, fmt.Errorf("delete lessons by group_id: %w", err)
	}

	return affected, nil
}

func (r *LessonRepository) listIDs(ctx context.Context, query string, userID int64, key uuid.UUID) ([]int64, error) {
	rows, err := r.Query(ctx, query, userID, key)
	if err != nil {
		return nil, fmt.Errorf("list lesson ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan lesson id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
