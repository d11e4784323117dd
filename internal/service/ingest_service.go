package service

import (
	"context"
	"path"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/quizzard-app/roster-api/internal/models"
	"github.com/quizzard-app/roster-api/internal/roster"
	appErrors "github.com/quizzard-app/roster-api/pkg/errors"
)

type ingestClassRepository interface {
	Create(ctx context.Context, class *models.ClassRecord) error
}

type ingestStudentRepository interface {
	Create(ctx context.Context, student *models.StudentRecord) error
}

// IngestRequest carries one roster upload.
type IngestRequest struct {
	OwnerID    string            `validate:"required"`
	OwnerName  string            `validate:"required"`
	OwnerEmail string            `validate:"omitempty,email"`
	Mode       models.IngestMode `validate:"required"`
	FileName   string            `validate:"required"`
	Data       []byte            `validate:"required"`
	// ClassName overrides the group name in single-class mode; it defaults
	// to the file name without its extension.
	ClassName string
}

// IngestService turns uploaded rosters into class and student documents.
// The class insert and the per-student inserts are not atomic; per-row
// failures are counted and reported, never fatal, and the stored class
// counter is treated as advisory by readers.
type IngestService struct {
	classes   ingestClassRepository
	students  ingestStudentRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService

	// One upload at a time per operator; a double click must not create the
	// class twice.
	inflight sync.Map // owner id -> *atomic.Bool
}

// NewIngestService constructs the ingest service.
func NewIngestService(classes ingestClassRepository, students ingestStudentRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *IngestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{classes: classes, students: students, validator: validate, logger: logger, metrics: metrics}
}

// Ingest decodes, validates and registers one uploaded roster. Structural
// failures abort before any write.
func (s *IngestService) Ingest(ctx context.Context, req IngestRequest) (*models.IngestResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid ingest payload")
	}
	if !req.Mode.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mode must be \"single\" or \"multi\"")
	}

	guard := s.guardFor(req.OwnerID)
	if !guard.CompareAndSwap(false, true) {
		return nil, appErrors.Clone(appErrors.ErrIngestInProgress, "")
	}
	defer guard.Store(false)

	rawRows, err := roster.Decode(req.Data, path.Ext(req.FileName))
	if err != nil {
		return nil, err
	}

	validation, err := roster.ValidateAndPartition(roster.Normalize(rawRows), req.Mode)
	if err != nil {
		return nil, err
	}

	result := &models.IngestResult{SkippedRows: validation.Skipped}
	for _, group := range validation.Groups {
		summary, err := s.registerGroup(ctx, req, group)
		if err != nil {
			return nil, err
		}
		result.CreatedClasses = append(result.CreatedClasses, summary)
		result.CreatedStudents += summary.CreatedStudents
		result.ErrorCount += summary.ErrorCount
	}

	s.metrics.RecordIngest(len(result.CreatedClasses), result.CreatedStudents)
	s.logger.Info("roster ingested",
		zap.String("owner_id", req.OwnerID),
		zap.String("file", req.FileName),
		zap.Int("classes", len(result.CreatedClasses)),
		zap.Int("students", result.CreatedStudents),
		zap.Int("skipped", result.SkippedRows),
		zap.Int("errors", result.ErrorCount),
	)
	return result, nil
}

func (s *IngestService) guardFor(ownerID string) *atomic.Bool {
	value, _ := s.inflight.LoadOrStore(ownerID, &atomic.Bool{})
	return value.(*atomic.Bool)
}

// registerGroup creates one class document and one student document per
// row. Each student insert is independent; a failing row is counted and the
// rest proceed.
func (s *IngestService) registerGroup(ctx context.Context, req IngestRequest, group models.RosterGroup) (models.ClassSummary, error) {
	class := &models.ClassRecord{
		Name:         s.groupName(req, group),
		StudentCount: len(group.Rows),
		TeacherID:    req.OwnerID,
		TeacherName:  req.OwnerName,
		TeacherEmail: req.OwnerEmail,
		FileName:     req.FileName,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return models.ClassSummary{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}

	summary := models.ClassSummary{ClassID: class.ID, Name: class.Name}
	for _, row := range group.Rows {
		student := studentFromRow(row, class.ID)
		if err := s.students.Create(ctx, student); err != nil {
			summary.ErrorCount++
			s.logger.Warn("failed to register student",
				zap.String("class_id", class.ID),
				zap.String("student_no", student.StudentNo),
				zap.Error(err),
			)
			continue
		}
		summary.CreatedStudents++
	}
	return summary, nil
}

func (s *IngestService) groupName(req IngestRequest, group models.RosterGroup) string {
	if group.Key != "" {
		return group.Key
	}
	if name := strings.TrimSpace(req.ClassName); name != "" {
		return name
	}
	return strings.TrimSuffix(req.FileName, path.Ext(req.FileName))
}

func studentFromRow(row models.RosterRow, classID string) *models.StudentRecord {
	return &models.StudentRecord{
		ClassID:      classID,
		StudentNo:    row.Get(models.FieldStudentNo),
		Name:         displayName(row),
		Gender:       row.Get(models.FieldGender),
		Program:      row.Get(models.FieldProgram),
		Year:         row.Get(models.FieldYear),
		Section:      row.Get(models.FieldSection),
		EmailAddress: row.Get(models.FieldEmailAddress),
		ContactNo:    row.Get(models.FieldContactNo),
	}
}

// displayName prefers the sheet's single name column and assembles
// "Last, First Middle" from the split columns of multi-section sheets.
func displayName(row models.RosterRow) string {
	if name := row.Get(models.FieldName); name != "" {
		return name
	}
	given := row.Get(models.FieldFirstName)
	if middle := row.Get(models.FieldMiddleName); middle != "" {
		given += " " + middle
	}
	last := row.Get(models.FieldLastName)
	switch {
	case last == "":
		return given
	case given == "":
		return last
	default:
		return last + ", " + given
	}
}
