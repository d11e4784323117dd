package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizzard-app/roster-api/internal/models"
	"github.com/quizzard-app/roster-api/internal/store"
)

func TestStudentRepositoryCreateAndListByClass(t *testing.T) {
	mem := store.NewMemory()
	repo := NewStudentRepository(mem)
	ctx := context.Background()

	ana := &models.StudentRecord{ClassID: "c1", StudentNo: "2021-001", Name: "Reyes, Ana", EmailAddress: "ana@example.com"}
	require.NoError(t, repo.Create(ctx, ana))
	require.NotEmpty(t, ana.ID)
	assert.Equal(t, models.RoleStudent, ana.Role)

	ben := &models.StudentRecord{ClassID: "c2", StudentNo: "2021-002", Name: "Cruz, Ben"}
	require.NoError(t, repo.Create(ctx, ben))

	students, err := repo.ListByClass(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Reyes, Ana", students[0].Name)
	assert.Equal(t, "ana@example.com", students[0].EmailAddress)
	assert.False(t, students[0].HasAccount)
}

func TestStudentRepositoryListIgnoresTeacherDocuments(t *testing.T) {
	mem := store.NewMemory()
	students := NewStudentRepository(mem)
	teachers := NewTeacherRepository(mem)
	ctx := context.Background()

	require.NoError(t, students.Create(ctx, &models.StudentRecord{ClassID: "c1", StudentNo: "1", Name: "Ana"}))
	require.NoError(t, teachers.Create(ctx, &models.TeacherRecord{Email: "prof@example.com"}))

	list, err := students.ListByClass(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStudentRepositoryCountByClass(t *testing.T) {
	mem := store.NewMemory()
	repo := NewStudentRepository(mem)
	ctx := context.Background()

	for _, no := range []string{"1", "2", "3"} {
		require.NoError(t, repo.Create(ctx, &models.StudentRecord{ClassID: "c1", StudentNo: no, Name: "S" + no}))
	}

	count, err := repo.CountByClass(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestStudentRepositorySetAccountLinkUpdatesBothFields(t *testing.T) {
	mem := store.NewMemory()
	repo := NewStudentRepository(mem)
	ctx := context.Background()

	student := &models.StudentRecord{ClassID: "c1", StudentNo: "1", Name: "Ana"}
	require.NoError(t, repo.Create(ctx, student))

	require.NoError(t, repo.SetAccountLink(ctx, student.ID, "uid-1"))

	students, err := repo.ListByClass(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.True(t, students[0].HasAccount)
	assert.Equal(t, "uid-1", students[0].AuthIdentityID)
}

func TestStudentRepositoryDeleteAbsentSucceeds(t *testing.T) {
	mem := store.NewMemory()
	repo := NewStudentRepository(mem)

	assert.NoError(t, repo.Delete(context.Background(), "never-existed"))
}
