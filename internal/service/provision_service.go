package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/quizzard-app/roster-api/internal/identity"
	"github.com/quizzard-app/roster-api/internal/models"
	appErrors "github.com/quizzard-app/roster-api/pkg/errors"
)

type provisionStudentRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.StudentRecord, error)
	SetAccountLink(ctx context.Context, id, identityID string) error
}

// ProvisionService creates login identities for students that lack one.
//
// Students are processed strictly sequentially: the identity provider's
// create call switches the caller's active session to the new identity, so
// the operator's session is snapshotted up front and restored after every
// single call. Parallel calls would race on that shared session state.
type ProvisionService struct {
	students provisionStudentRepository
	provider identity.Provider
	logger   *zap.Logger
	metrics  *MetricsService

	defaultPassword string
}

// NewProvisionService constructs the orchestrator.
func NewProvisionService(students provisionStudentRepository, provider identity.Provider, defaultPassword string, logger *zap.Logger, metrics *MetricsService) *ProvisionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProvisionService{
		students:        students,
		provider:        provider,
		logger:          logger,
		metrics:         metrics,
		defaultPassword: defaultPassword,
	}
}

// ProvisionAll provisions every unprovisioned student of the class and
// reports per-student outcomes. Individual failures never abort the batch;
// a provider outage surfaces as every student failing with a transport
// reason. Safe to call repeatedly: already-provisioned students are skipped
// without any provider call.
func (s *ProvisionService) ProvisionAll(ctx context.Context, classID string) (*models.BatchReport, error) {
	all, err := s.students.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class students")
	}

	pending := make([]models.StudentRecord, 0, len(all))
	for _, student := range all {
		if !student.HasAccount {
			pending = append(pending, student)
		}
	}

	report := &models.BatchReport{}
	if len(pending) == 0 {
		return report, nil
	}

	// Snapshot once; restore after every create call below.
	operatorSession := s.provider.CurrentSession()

	for _, student := range pending {
		// Cooperative cancellation between students; mid-call the provider
		// honours the context itself.
		if ctx.Err() != nil {
			s.fail(report, student, "provisioning cancelled before this student")
			continue
		}

		outcome, identityID, reason := s.provisionOne(ctx, student, operatorSession)

		if outcome == models.OutcomeFailed {
			s.fail(report, student, reason)
			continue
		}

		// hasAccount and authIdentityId always change together; on update
		// failure neither is persisted and the student reports as failed.
		if err := s.students.SetAccountLink(ctx, student.ID, identityID); err != nil {
			s.fail(report, student, "failed to record account link: "+err.Error())
			continue
		}

		switch outcome {
		case models.OutcomeCreated:
			report.Created++
		case models.OutcomeAlreadyProvisioned:
			report.AlreadyProvisioned++
		}
	}

	s.metrics.RecordProvisioning(report.Created)
	s.logger.Info("provisioning batch finished",
		zap.String("class_id", classID),
		zap.Int("created", report.Created),
		zap.Int("already_provisioned", report.AlreadyProvisioned),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (s *ProvisionService) provisionOne(ctx context.Context, student models.StudentRecord, operatorSession string) (models.ProvisionOutcome, string, string) {
	email := strings.TrimSpace(student.EmailAddress)
	if email == "" || !strings.Contains(email, "@") {
		return models.OutcomeFailed, "", "no usable email address on record"
	}

	identityID, err := s.provider.CreateIdentity(ctx, email, s.defaultPassword)
	// Restore unconditionally: a successful create has switched the session
	// and the very next create would otherwise run as the wrong actor.
	s.provider.RestoreSession(operatorSession)

	if err == nil {
		return models.OutcomeCreated, identityID, ""
	}

	if identity.IsAlreadyExists(err) {
		existingID, lookupErr := s.provider.LookupIdentity(ctx, email)
		if lookupErr != nil {
			return models.OutcomeFailed, "", "identity exists but could not be resolved: " + lookupErr.Error()
		}
		return models.OutcomeAlreadyProvisioned, existingID, ""
	}

	return models.OutcomeFailed, "", err.Error()
}

func (s *ProvisionService) fail(report *models.BatchReport, student models.StudentRecord, reason string) {
	report.Failed++
	report.Failures = append(report.Failures, models.ProvisionFailure{
		StudentID: student.ID,
		Name:      student.Name,
		Reason:    reason,
	})
	s.logger.Warn("student provisioning failed",
		zap.String("student_id", student.ID),
		zap.String("reason", reason),
	)
}
