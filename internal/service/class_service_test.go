package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizzard-app/roster-api/internal/models"
	"github.com/quizzard-app/roster-api/internal/store"
	appErrors "github.com/quizzard-app/roster-api/pkg/errors"
)

type mockClassReader struct {
	classes map[string]models.ClassRecord

	mu         sync.Mutex
	deleted    []string
	deleteErrs map[string]error
}

func (m *mockClassReader) FindByID(ctx context.Context, id string) (*models.ClassRecord, error) {
	if c, ok := m.classes[id]; ok {
		return &c, nil
	}
	return nil, store.ErrNotFound
}

func (m *mockClassReader) ListByTeacher(ctx context.Context, teacherID string) ([]models.ClassRecord, error) {
	var list []models.ClassRecord
	for _, c := range m.classes {
		if c.TeacherID == teacherID {
			list = append(list, c)
		}
	}
	return list, nil
}

func (m *mockClassReader) Delete(ctx context.Context, id string) error {
	if err := m.deleteErrs[id]; err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return nil
}

type mockClassStudentRepo struct {
	byClass map[string][]models.StudentRecord

	mu         sync.Mutex
	deleted    []string
	deleteErrs map[string]error
}

func (m *mockClassStudentRepo) ListByClass(ctx context.Context, classID string) ([]models.StudentRecord, error) {
	return m.byClass[classID], nil
}

func (m *mockClassStudentRepo) CountByClass(ctx context.Context, classID string) (int, error) {
	return len(m.byClass[classID]), nil
}

func (m *mockClassStudentRepo) Delete(ctx context.Context, id string) error {
	if err := m.deleteErrs[id]; err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return nil
}

func TestListByOwnerRecountsStudentsAndSortsNewestFirst(t *testing.T) {
	now := time.Now().UTC()
	classes := &mockClassReader{classes: map[string]models.ClassRecord{
		"c1": {ID: "c1", TeacherID: "t1", StudentCount: 99, UploadedAt: now.Add(-time.Hour)},
		"c2": {ID: "c2", TeacherID: "t1", StudentCount: 0, UploadedAt: now},
		"c3": {ID: "c3", TeacherID: "t2", UploadedAt: now},
	}}
	students := &mockClassStudentRepo{byClass: map[string][]models.StudentRecord{
		"c1": {{ID: "s1"}, {ID: "s2"}},
		"c2": {{ID: "s3"}},
	}}
	svc := NewClassService(classes, students, nil, nil)

	list, err := svc.ListByOwner(context.Background(), "t1")
	require.NoError(t, err)

	require.Len(t, list, 2)
	assert.Equal(t, "c2", list[0].ID)
	assert.Equal(t, 1, list[0].StudentCount)
	assert.Equal(t, "c1", list[1].ID)
	assert.Equal(t, 2, list[1].StudentCount)
}

func TestListStudentsSortsByNameCaseInsensitive(t *testing.T) {
	classes := &mockClassReader{classes: map[string]models.ClassRecord{
		"c1": {ID: "c1", TeacherID: "t1"},
	}}
	students := &mockClassStudentRepo{byClass: map[string][]models.StudentRecord{
		"c1": {
			{ID: "s1", Name: "delos Santos, Ana"},
			{ID: "s2", Name: "Cruz, Ben"},
			{ID: "s3", Name: "Abad, Cara"},
		},
	}}
	svc := NewClassService(classes, students, nil, nil)

	list, err := svc.ListStudents(context.Background(), "c1")
	require.NoError(t, err)

	require.Len(t, list, 3)
	assert.Equal(t, "Abad, Cara", list[0].Name)
	assert.Equal(t, "Cruz, Ben", list[1].Name)
	assert.Equal(t, "delos Santos, Ana", list[2].Name)
}

func TestListStudentsUnknownClassIsNotFound(t *testing.T) {
	svc := NewClassService(&mockClassReader{}, &mockClassStudentRepo{}, nil, nil)

	_, err := svc.ListStudents(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRemoveDeletesClassAndAllStudents(t *testing.T) {
	classes := &mockClassReader{classes: map[string]models.ClassRecord{"c1": {ID: "c1"}}}
	students := &mockClassStudentRepo{byClass: map[string][]models.StudentRecord{
		"c1": {{ID: "s1"}, {ID: "s2"}, {ID: "s3"}},
	}}
	svc := NewClassService(classes, students, nil, nil)

	result, err := svc.Remove(context.Background(), "c1")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"s1", "s2", "s3", "c1"}, result.Succeeded)
	assert.Empty(t, result.Failed)
	assert.ElementsMatch(t, []string{"s1", "s2", "s3"}, students.deleted)
	assert.Equal(t, []string{"c1"}, classes.deleted)
}

func TestRemovePartialFailureReportsBothSets(t *testing.T) {
	classes := &mockClassReader{classes: map[string]models.ClassRecord{"c1": {ID: "c1"}}}
	students := &mockClassStudentRepo{
		byClass:    map[string][]models.StudentRecord{"c1": {{ID: "s1"}, {ID: "s2"}}},
		deleteErrs: map[string]error{"s2": errors.New("store refused")},
	}
	svc := NewClassService(classes, students, nil, nil)

	result, err := svc.Remove(context.Background(), "c1")
	require.Error(t, err)
	require.NotNil(t, result)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPartialDelete.Code, appErr.Code)
	assert.ElementsMatch(t, []string{"s1", "c1"}, result.Succeeded)
	assert.Equal(t, []string{"s2"}, result.Failed)
	assert.ElementsMatch(t, result.Succeeded, appErr.Details["succeeded"])
	assert.ElementsMatch(t, result.Failed, appErr.Details["failed"])
}

func TestRemoveOfAlreadyRemovedClassSucceeds(t *testing.T) {
	// Deleting absent documents succeeds, so a retry after partial failure
	// or a double click reports success.
	classes := &mockClassReader{}
	students := &mockClassStudentRepo{}
	svc := NewClassService(classes, students, nil, nil)

	result, err := svc.Remove(context.Background(), "gone")
	require.NoError(t, err)
	assert.Equal(t, []string{"gone"}, result.Succeeded)
	assert.Empty(t, result.Failed)
}
