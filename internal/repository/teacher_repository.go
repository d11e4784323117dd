package repository

import (
	"context"
	"time"

	"github.com/quizzard-app/roster-api/internal/models"
	"github.com/quizzard-app/roster-api/internal/store"
)

// TeacherRepository persists teacher documents in the users collection.
type TeacherRepository struct {
	store store.Store
}

// NewTeacherRepository constructs the repository.
func NewTeacherRepository(s store.Store) *TeacherRepository {
	return &TeacherRepository{store: s}
}

// Create inserts the teacher document and assigns its id.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.TeacherRecord) error {
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = time.Now().UTC()
	}
	teacher.Role = models.RoleTeacher
	id, err := r.store.Insert(ctx, store.CollectionUsers, store.Fields{
		"email":          teacher.Email,
		"role":           teacher.Role,
		"authIdentityId": teacher.AuthIdentityID,
		"createdAt":      teacher.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	teacher.ID = id
	return nil
}
