package repository

import (
	"context"
	"time"

	"github.com/quizzard-app/roster-api/internal/models"
	"github.com/quizzard-app/roster-api/internal/store"
)

// ClassRepository persists class documents.
type ClassRepository struct {
	store store.Store
}

// NewClassRepository constructs the repository.
func NewClassRepository(s store.Store) *ClassRepository {
	return &ClassRepository{store: s}
}

// Create inserts the class and assigns its id.
func (r *ClassRepository) Create(ctx context.Context, class *models.ClassRecord) error {
	if class.UploadedAt.IsZero() {
		class.UploadedAt = time.Now().UTC()
	}
	id, err := r.store.Insert(ctx, store.CollectionClasses, store.Fields{
		"name":         class.Name,
		"subject":      class.Subject,
		"studentCount": class.StudentCount,
		"teacherId":    class.TeacherID,
		"teacherName":  class.TeacherName,
		"teacherEmail": class.TeacherEmail,
		"fileName":     class.FileName,
		"uploadedAt":   class.UploadedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	class.ID = id
	return nil
}

// FindByID loads one class.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.ClassRecord, error) {
	doc, err := r.store.Get(ctx, store.CollectionClasses, id)
	if err != nil {
		return nil, err
	}
	class := classFromDocument(doc)
	return &class, nil
}

// ListByTeacher returns every class owned by the teacher.
func (r *ClassRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.ClassRecord, error) {
	docs, err := r.store.Query(ctx, store.CollectionClasses, store.Fields{"teacherId": teacherID})
	if err != nil {
		return nil, err
	}
	classes := make([]models.ClassRecord, 0, len(docs))
	for _, doc := range docs {
		classes = append(classes, classFromDocument(doc))
	}
	return classes, nil
}

// Delete removes the class document. Absent documents delete as success.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.CollectionClasses, id)
}

func classFromDocument(doc store.Document) models.ClassRecord {
	return models.ClassRecord{
		ID:           doc.ID,
		Name:         fieldString(doc.Fields, "name"),
		Subject:      fieldString(doc.Fields, "subject"),
		StudentCount: fieldInt(doc.Fields, "studentCount"),
		TeacherID:    fieldString(doc.Fields, "teacherId"),
		TeacherName:  fieldString(doc.Fields, "teacherName"),
		TeacherEmail: fieldString(doc.Fields, "teacherEmail"),
		FileName:     fieldString(doc.Fields, "fileName"),
		UploadedAt:   fieldTime(doc.Fields, "uploadedAt"),
	}
}
