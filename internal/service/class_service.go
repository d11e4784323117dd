package service

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/quizzard-app/roster-api/internal/models"
	"github.com/quizzard-app/roster-api/internal/store"
	appErrors "github.com/quizzard-app/roster-api/pkg/errors"
)

type classRepository interface {
	FindByID(ctx context.Context, id string) (*models.ClassRecord, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.ClassRecord, error)
	Delete(ctx context.Context, id string) error
}

type classStudentRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.StudentRecord, error)
	CountByClass(ctx context.Context, classID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// ClassService serves class projections and cascade removal.
type ClassService struct {
	classes  classRepository
	students classStudentRepository
	logger   *zap.Logger
	metrics  *MetricsService
}

// NewClassService constructs the class service.
func NewClassService(classes classRepository, students classStudentRepository, logger *zap.Logger, metrics *MetricsService) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{classes: classes, students: students, logger: logger, metrics: metrics}
}

// ListByOwner returns the operator's classes. StudentCount is recomputed
// from a live count because the stored counter reflects the upload-time
// value and class+student creation is not atomic.
func (s *ClassService) ListByOwner(ctx context.Context, ownerID string) ([]models.ClassRecord, error) {
	classes, err := s.classes.ListByTeacher(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	for i := range classes {
		count, err := s.students.CountByClass(ctx, classes[i].ID)
		if err != nil {
			s.logger.Warn("failed to recount class students", zap.String("class_id", classes[i].ID), zap.Error(err))
			continue
		}
		classes[i].StudentCount = count
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].UploadedAt.After(classes[j].UploadedAt) })
	return classes, nil
}

// ListStudents returns the class roster sorted by name ascending,
// case-insensitive, locale-aware.
func (s *ClassService) ListStudents(ctx context.Context, classID string) ([]models.StudentRecord, error) {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if err == store.ErrNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	students, err := s.students.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	collator := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(students, func(i, j int) bool {
		return collator.CompareString(students[i].Name, students[j].Name) < 0
	})
	return students, nil
}

// Remove deletes the class and all its students as a best-effort cascade.
// Deletes run concurrently; they are independent and idempotent (deleting an
// absent document succeeds), so a partial failure is retried simply by
// calling Remove again. Successful deletes are never compensated.
func (s *ClassService) Remove(ctx context.Context, classID string) (*models.RemoveClassResult, error) {
	students, err := s.students.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class students")
	}

	type target struct {
		id     string
		delete func(context.Context, string) error
	}
	targets := make([]target, 0, len(students)+1)
	for _, student := range students {
		targets = append(targets, target{id: student.ID, delete: s.students.Delete})
	}
	targets = append(targets, target{id: classID, delete: s.classes.Delete})

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result models.RemoveClassResult
	)
	for _, t := range targets {
		wg.Add(1)
		go func(t target) {
			defer wg.Done()
			err := t.delete(ctx, t.id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, t.id)
				return
			}
			result.Succeeded = append(result.Succeeded, t.id)
		}(t)
	}
	wg.Wait()

	s.metrics.RecordDeletes(len(result.Succeeded))
	if len(result.Failed) > 0 {
		s.logger.Warn("class removal incomplete",
			zap.String("class_id", classID),
			zap.Int("succeeded", len(result.Succeeded)),
			zap.Int("failed", len(result.Failed)),
		)
		err := appErrors.WithDetails(appErrors.ErrPartialDelete, map[string]interface{}{
			"succeeded": result.Succeeded,
			"failed":    result.Failed,
		})
		return &result, err
	}

	s.logger.Info("class removed",
		zap.String("class_id", classID),
		zap.Int("documents", len(result.Succeeded)),
	)
	return &result, nil
}
