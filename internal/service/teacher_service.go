package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/quizzard-app/roster-api/internal/identity"
	"github.com/quizzard-app/roster-api/internal/models"
	appErrors "github.com/quizzard-app/roster-api/pkg/errors"
)

type teacherRepository interface {
	Create(ctx context.Context, teacher *models.TeacherRecord) error
}

// CreateTeacherRequest holds payload for creating teacher accounts.
type CreateTeacherRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// TeacherService creates teacher identities plus their user documents. The
// create-identity call here has the same session side effect as student
// provisioning, so the operator's session is snapshotted and restored
// around it.
type TeacherService struct {
	teachers  teacherRepository
	provider  identity.Provider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(teachers teacherRepository, provider identity.Provider, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{teachers: teachers, provider: provider, validator: validate, logger: logger}
}

// Create registers a teacher account and its user document.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.TeacherRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	operatorSession := s.provider.CurrentSession()
	identityID, err := s.provider.CreateIdentity(ctx, req.Email, req.Password)
	s.provider.RestoreSession(operatorSession)
	if err != nil {
		switch identity.KindOf(err) {
		case identity.KindAlreadyExists:
			return nil, appErrors.Clone(appErrors.ErrConflict, "that email is already in use")
		case identity.KindInvalidEmail:
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid email format")
		case identity.KindWeakCredential:
			return nil, appErrors.Clone(appErrors.ErrValidation, "password should be at least 6 characters")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher account")
		}
	}

	teacher := &models.TeacherRecord{
		Email:          req.Email,
		AuthIdentityID: identityID,
	}
	if err := s.teachers.Create(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store teacher record")
	}

	s.logger.Info("teacher account created", zap.String("teacher_id", teacher.ID))
	return teacher, nil
}
