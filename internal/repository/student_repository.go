package repository

import (
	"context"
	"time"

	"github.com/quizzard-app/roster-api/internal/models"
	"github.com/quizzard-app/roster-api/internal/store"
)

// StudentRepository persists student documents in the shared users
// collection. Every query filters on role so teacher documents in the same
// collection are never touched.
type StudentRepository struct {
	store store.Store
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(s store.Store) *StudentRepository {
	return &StudentRepository{store: s}
}

// Create inserts the student and assigns its id.
func (r *StudentRepository) Create(ctx context.Context, student *models.StudentRecord) error {
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now().UTC()
	}
	student.Role = models.RoleStudent
	id, err := r.store.Insert(ctx, store.CollectionUsers, store.Fields{
		"studentNo":      student.StudentNo,
		"name":           student.Name,
		"gender":         student.Gender,
		"program":        student.Program,
		"year":           student.Year,
		"section":        student.Section,
		"emailAddress":   student.EmailAddress,
		"contactNo":      student.ContactNo,
		"classId":        student.ClassID,
		"role":           student.Role,
		"hasAccount":     student.HasAccount,
		"authIdentityId": student.AuthIdentityID,
		"createdAt":      student.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	student.ID = id
	return nil
}

// ListByClass returns every student belonging to the class.
func (r *StudentRepository) ListByClass(ctx context.Context, classID string) ([]models.StudentRecord, error) {
	docs, err := r.store.Query(ctx, store.CollectionUsers, store.Fields{
		"role":    models.RoleStudent,
		"classId": classID,
	})
	if err != nil {
		return nil, err
	}
	students := make([]models.StudentRecord, 0, len(docs))
	for _, doc := range docs {
		students = append(students, studentFromDocument(doc))
	}
	return students, nil
}

// CountByClass recomputes the live student count for a class. The counter
// stored on the class document is advisory only.
func (r *StudentRepository) CountByClass(ctx context.Context, classID string) (int, error) {
	students, err := r.ListByClass(ctx, classID)
	if err != nil {
		return 0, err
	}
	return len(students), nil
}

// SetAccountLink flips hasAccount and records the identity id in one write,
// preserving the invariant that the two fields change together.
func (r *StudentRepository) SetAccountLink(ctx context.Context, id, identityID string) error {
	return r.store.Update(ctx, store.CollectionUsers, id, store.Fields{
		"hasAccount":     true,
		"authIdentityId": identityID,
	})
}

// Delete removes the student document. Absent documents delete as success.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.CollectionUsers, id)
}

func studentFromDocument(doc store.Document) models.StudentRecord {
	return models.StudentRecord{
		ID:             doc.ID,
		ClassID:        fieldString(doc.Fields, "classId"),
		StudentNo:      fieldString(doc.Fields, "studentNo"),
		Name:           fieldString(doc.Fields, "name"),
		Gender:         fieldString(doc.Fields, "gender"),
		Program:        fieldString(doc.Fields, "program"),
		Year:           fieldString(doc.Fields, "year"),
		Section:        fieldString(doc.Fields, "section"),
		EmailAddress:   fieldString(doc.Fields, "emailAddress"),
		ContactNo:      fieldString(doc.Fields, "contactNo"),
		Role:           fieldString(doc.Fields, "role"),
		HasAccount:     fieldBool(doc.Fields, "hasAccount"),
		AuthIdentityID: fieldString(doc.Fields, "authIdentityId"),
		CreatedAt:      fieldTime(doc.Fields, "createdAt"),
	}
}
