package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizzard-app/roster-api/internal/models"
	"github.com/quizzard-app/roster-api/internal/store"
)

func TestClassRepositoryCreateAndFind(t *testing.T) {
	mem := store.NewMemory()
	repo := NewClassRepository(mem)
	ctx := context.Background()

	class := &models.ClassRecord{
		Name:         "BSIT 2A",
		StudentCount: 31,
		TeacherID:    "t1",
		TeacherName:  "Prof. Santos",
		FileName:     "bsit-2a.xlsx",
	}
	require.NoError(t, repo.Create(ctx, class))
	require.NotEmpty(t, class.ID)
	assert.False(t, class.UploadedAt.IsZero())

	found, err := repo.FindByID(ctx, class.ID)
	require.NoError(t, err)
	assert.Equal(t, "BSIT 2A", found.Name)
	assert.Equal(t, 31, found.StudentCount)
	assert.Equal(t, "t1", found.TeacherID)
	assert.Equal(t, "bsit-2a.xlsx", found.FileName)
}

func TestClassRepositoryFindMissingReturnsStoreNotFound(t *testing.T) {
	repo := NewClassRepository(store.NewMemory())
	_, err := repo.FindByID(context.Background(), "missing")
	assert.Equal(t, store.ErrNotFound, err)
}

func TestClassRepositoryListByTeacher(t *testing.T) {
	mem := store.NewMemory()
	repo := NewClassRepository(mem)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.ClassRecord{Name: "A", TeacherID: "t1"}))
	require.NoError(t, repo.Create(ctx, &models.ClassRecord{Name: "B", TeacherID: "t1"}))
	require.NoError(t, repo.Create(ctx, &models.ClassRecord{Name: "C", TeacherID: "t2"}))

	classes, err := repo.ListByTeacher(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, classes, 2)
}

func TestClassRepositoryDelete(t *testing.T) {
	mem := store.NewMemory()
	repo := NewClassRepository(mem)
	ctx := context.Background()

	class := &models.ClassRecord{Name: "A", TeacherID: "t1"}
	require.NoError(t, repo.Create(ctx, class))

	require.NoError(t, repo.Delete(ctx, class.ID))
	require.NoError(t, repo.Delete(ctx, class.ID))

	_, err := repo.FindByID(ctx, class.ID)
	assert.Equal(t, store.ErrNotFound, err)
}
