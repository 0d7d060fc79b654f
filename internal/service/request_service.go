package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateRequestDTO struct {
	ProjectNumber   string          `json:"project_number"`
	RefNumber       string          `json:"ref_number"`
	BeneficiaryName string          `json:"beneficiary_name" binding:"required"`
	Country         string          `json:"country" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Currency        model.Currency  `json:"currency" binding:"required"`
	ValueDate       string          `json:"value_date" binding:"required"` // YYYY-MM-DD
	Priority        model.Priority  `json:"priority"`
	Notes           string          `json:"notes"`
	Attachments     []string        `json:"attachments"`
}

type TransitionDTO struct {
	Comment string `json:"comment"`
}

// Actor identifies the user performing a workflow operation
type Actor struct {
	ID   string
	Name string
}

// --- Interface ---

// RequestService is the workflow engine: the only component allowed to change
// CurrentStage, Status, AssignedTo and ProcessingDays on a request. Every
// mutation persists the request and appends exactly one timeline event inside
// a single transaction.
type RequestService interface {
	CreateRequest(ctx context.Context, dto CreateRequestDTO, actor Actor) (*model.WithdrawalRequest, error)
	GetRequestByID(ctx context.Context, id string) (*model.WithdrawalRequest, error)
	ListRequests(ctx context.Context, filter repository.RequestFilter) ([]model.WithdrawalRequest, int64, error)
	SearchRequests(ctx context.Context, term string) ([]model.WithdrawalRequest, error)
	SubmitForTechnicalReview(ctx context.Context, id string, actor Actor) (*model.WithdrawalRequest, error)
	ApproveRequest(ctx context.Context, id string, actor Actor, comment string) (*model.WithdrawalRequest, error)
	RejectRequest(ctx context.Context, id string, actor Actor, comment string) (*model.WithdrawalRequest, error)
	DisburseRequest(ctx context.Context, id string, actor Actor) (*model.WithdrawalRequest, error)
}

type requestService struct {
	requests  repository.RequestRepository
	timeline  repository.TimelineRepository
	txm       repository.TransactionManager
	refGen    ReferenceGenerator
	notifier  Notifier
	now       func() time.Time
	opTimeout time.Duration
}

// NewRequestService wires the workflow engine with its collaborators. Pass
// NopNotifier when no notification channel is available.
func NewRequestService(
	requests repository.RequestRepository,
	timeline repository.TimelineRepository,
	txm repository.TransactionManager,
	refGen ReferenceGenerator,
	notifier Notifier,
) RequestService {
	return &requestService{
		requests:  requests,
		timeline:  timeline,
		txm:       txm,
		refGen:    refGen,
		notifier:  notifier,
		now:       time.Now,
		opTimeout: 5 * time.Second,
	}
}

// --- Implementation ---

func (s *requestService) CreateRequest(ctx context.Context, dto CreateRequestDTO, actor Actor) (*model.WithdrawalRequest, error) {
	valueDate, err := validateCreateRequest(&dto)
	if err != nil {
		return nil, err
	}

	projectNumber := dto.ProjectNumber
	if projectNumber == "" {
		projectNumber = s.refGen.ProjectNumber()
	}
	refNumber := dto.RefNumber
	if refNumber == "" {
		refNumber = s.refGen.RefNumber()
	}

	request := &model.WithdrawalRequest{
		ID:              uuid.New(),
		ProjectNumber:   projectNumber,
		RefNumber:       refNumber,
		BeneficiaryName: dto.BeneficiaryName,
		Country:         dto.Country,
		Amount:          dto.Amount,
		Currency:        dto.Currency,
		ValueDate:       valueDate,
		CurrentStage:    model.StageInitialReview,
		Status:          model.StatusPendingInitialReview,
		Priority:        dto.Priority,
		AssignedTo:      model.AssigneeArchiveQueue,
		ProcessingDays:  0,
		Notes:           dto.Notes,
		Attachments:     dto.Attachments,
	}

	err = s.runMutation(ctx, "create request", func(txCtx context.Context) error {
		if createErr := s.requests.Create(txCtx, request); createErr != nil {
			return fmt.Errorf("failed to create withdrawal request: %w", createErr)
		}

		event := &model.TimelineEvent{
			RequestID:   request.ID,
			UserID:      actor.ID,
			UserName:    actor.Name,
			EventType:   model.EventCreated,
			Title:       "Withdrawal Request Created",
			Description: fmt.Sprintf("Withdrawal request %s created for %s", request.RefNumber, request.Country),
			NewValue:    string(model.StageInitialReview),
			Metadata:    map[string]string{model.MetadataKeyStage: string(model.StageInitialReview)},
		}
		if recordErr := s.timeline.Create(txCtx, event); recordErr != nil {
			return fmt.Errorf("failed to record timeline event: %w", recordErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(NotifyRequestCreated, request.RefNumber)
	return request, nil
}

func (s *requestService) GetRequestByID(ctx context.Context, id string) (*model.WithdrawalRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "request", id, "get request")
	}
	return request, nil
}

func (s *requestService) ListRequests(ctx context.Context, filter repository.RequestFilter) ([]model.WithdrawalRequest, int64, error) {
	requests, total, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list withdrawal requests: %w", err)
	}
	return requests, total, nil
}

func (s *requestService) SearchRequests(ctx context.Context, term string) ([]model.WithdrawalRequest, error) {
	requests, err := s.requests.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search withdrawal requests: %w", err)
	}
	return requests, nil
}

// SubmitForTechnicalReview moves a request from initial review into the
// operations team's technical review queue.
func (s *requestService) SubmitForTechnicalReview(ctx context.Context, id string, actor Actor) (*model.WithdrawalRequest, error) {
	return s.applyTransition(ctx, id, actor, transitionSpec{
		op:          "submit for technical review",
		action:      "submit",
		from:        model.StageInitialReview,
		to:          model.StageTechnicalReview,
		status:      model.StatusPendingTechnicalReview,
		assignee:    model.AssigneeOperationsQueue,
		eventType:   model.EventStatusChange,
		eventTitle:  "Submitted for Technical Review",
		description: "Request forwarded to Operations Team for technical review",
	})
}

// ApproveRequest moves a technical-review request forward to core banking.
func (s *requestService) ApproveRequest(ctx context.Context, id string, actor Actor, comment string) (*model.WithdrawalRequest, error) {
	description := comment
	if description == "" {
		description = "Request approved by Operations Team"
	}

	request, err := s.applyTransition(ctx, id, actor, transitionSpec{
		op:          "approve request",
		action:      "approve",
		from:        model.StageTechnicalReview,
		to:          model.StageCoreBanking,
		status:      model.StatusApprovedToCoreBanking,
		assignee:    model.AssigneeCoreBankingQueue,
		eventType:   model.EventApproved,
		eventTitle:  "Request Approved",
		description: description,
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(NotifyRequestApproved, request.RefNumber)
	return request, nil
}

// RejectRequest returns a technical-review request to initial review for
// corrections. Rejection is a branch back, not a terminal delete: the record
// stays in the pipeline.
func (s *requestService) RejectRequest(ctx context.Context, id string, actor Actor, comment string) (*model.WithdrawalRequest, error) {
	description := comment
	if description == "" {
		description = "Request rejected by Operations Team"
	}

	request, err := s.applyTransition(ctx, id, actor, transitionSpec{
		op:          "reject request",
		action:      "reject",
		from:        model.StageTechnicalReview,
		to:          model.StageInitialReview,
		status:      model.StatusRejectedToInitial,
		assignee:    model.AssigneeArchiveQueue,
		eventType:   model.EventRejected,
		eventTitle:  "Request Rejected",
		description: description,
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(NotifyRequestRejected, request.RefNumber)
	return request, nil
}

// DisburseRequest is the terminal transition. It is the only operation that
// computes ProcessingDays, using wall-clock time at the moment of
// disbursement rather than the time the request entered core banking.
func (s *requestService) DisburseRequest(ctx context.Context, id string, actor Actor) (*model.WithdrawalRequest, error) {
	var updated *model.WithdrawalRequest

	err := s.runMutation(ctx, "disburse request", func(txCtx context.Context) error {
		request, err := s.requests.GetByID(txCtx, id)
		if err != nil {
			return mapRepoError(err, "request", id, "disburse request")
		}

		if request.CurrentStage != model.StageCoreBanking {
			return &InvalidTransitionError{From: request.CurrentStage, Action: "disburse"}
		}

		now := s.now()
		processingDays := int(math.Ceil(now.Sub(request.CreatedAt).Hours() / 24))
		if processingDays < 0 {
			processingDays = 0
		}

		fields := map[string]interface{}{
			"current_stage":   model.StageDisbursed,
			"status":          model.StatusDisbursed,
			"processing_days": processingDays,
			"updated_at":      now,
		}
		rows, err := s.requests.UpdateStageGuarded(txCtx, id, model.StageCoreBanking, fields)
		if err != nil {
			return fmt.Errorf("failed to update withdrawal request: %w", err)
		}
		if rows == 0 {
			return &ConcurrentModificationError{RequestID: id}
		}

		event := &model.TimelineEvent{
			RequestID:     request.ID,
			UserID:        actor.ID,
			UserName:      actor.Name,
			EventType:     model.EventDisbursed,
			Title:         "Request Disbursed",
			Description:   "Request disbursed by Core Banking Team",
			PreviousValue: string(model.StageCoreBanking),
			NewValue:      string(model.StageDisbursed),
			Metadata:      map[string]string{model.MetadataKeyStage: string(model.StageDisbursed)},
		}
		if recordErr := s.timeline.Create(txCtx, event); recordErr != nil {
			return fmt.Errorf("failed to record timeline event: %w", recordErr)
		}

		request.CurrentStage = model.StageDisbursed
		request.Status = model.StatusDisbursed
		request.ProcessingDays = processingDays
		request.UpdatedAt = now
		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(NotifyRequestDisbursed, updated.RefNumber)
	return updated, nil
}

// --- Transition plumbing ---

type transitionSpec struct {
	op          string
	action      string
	from        model.RequestStage
	to          model.RequestStage
	status      string
	assignee    string
	eventType   model.EventType
	eventTitle  string
	description string
}

// applyTransition is the shared read-validate-write-record unit for stage
// moves. The guarded update is the compare-and-swap: a concurrent caller that
// already moved the request off spec.from loses with ConcurrentModification.
func (s *requestService) applyTransition(ctx context.Context, id string, actor Actor, spec transitionSpec) (*model.WithdrawalRequest, error) {
	var updated *model.WithdrawalRequest

	err := s.runMutation(ctx, spec.op, func(txCtx context.Context) error {
		request, err := s.requests.GetByID(txCtx, id)
		if err != nil {
			return mapRepoError(err, "request", id, spec.op)
		}

		if request.CurrentStage != spec.from {
			return &InvalidTransitionError{From: request.CurrentStage, Action: spec.action}
		}

		now := s.now()
		fields := map[string]interface{}{
			"current_stage": spec.to,
			"status":        spec.status,
			"assigned_to":   spec.assignee,
			"updated_at":    now,
		}
		rows, err := s.requests.UpdateStageGuarded(txCtx, id, spec.from, fields)
		if err != nil {
			return fmt.Errorf("failed to update withdrawal request: %w", err)
		}
		if rows == 0 {
			return &ConcurrentModificationError{RequestID: id}
		}

		event := &model.TimelineEvent{
			RequestID:     request.ID,
			UserID:        actor.ID,
			UserName:      actor.Name,
			EventType:     spec.eventType,
			Title:         spec.eventTitle,
			Description:   spec.description,
			PreviousValue: string(spec.from),
			NewValue:      string(spec.to),
			Metadata:      map[string]string{model.MetadataKeyStage: string(spec.to)},
		}
		if recordErr := s.timeline.Create(txCtx, event); recordErr != nil {
			return fmt.Errorf("failed to record timeline event: %w", recordErr)
		}

		request.CurrentStage = spec.to
		request.Status = spec.status
		request.AssignedTo = spec.assignee
		request.UpdatedAt = now
		updated = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// runMutation bounds every write with a timeout and runs it inside a single
// transaction. Deadline expiry surfaces as StorageUnavailable, never as a
// half-applied state.
func (s *requestService) runMutation(ctx context.Context, op string, fn func(txCtx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if err := s.txm.RunInTx(ctx, fn); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return &StorageUnavailableError{Op: op, Err: err}
		}
		return err
	}
	return nil
}

func mapRepoError(err error, entity, id, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &StorageUnavailableError{Op: op, Err: err}
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

func validateCreateRequest(dto *CreateRequestDTO) (time.Time, error) {
	if dto.Amount.LessThanOrEqual(decimal.Zero) {
		return time.Time{}, &ValidationError{Field: "amount", Message: "must be greater than zero"}
	}
	if strings.TrimSpace(dto.BeneficiaryName) == "" {
		return time.Time{}, &ValidationError{Field: "beneficiary_name", Message: "is required"}
	}
	if strings.TrimSpace(dto.Country) == "" {
		return time.Time{}, &ValidationError{Field: "country", Message: "is required"}
	}

	switch dto.Currency {
	case model.CurrencyUSD, model.CurrencyEUR, model.CurrencyAED:
	default:
		return time.Time{}, &ValidationError{Field: "currency", Message: "must be one of USD, EUR, AED"}
	}

	if dto.Priority == "" {
		dto.Priority = model.PriorityMedium
	}
	switch dto.Priority {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityUrgent:
	default:
		return time.Time{}, &ValidationError{Field: "priority", Message: "must be one of low, medium, high, urgent"}
	}

	valueDate, err := time.Parse("2006-01-02", dto.ValueDate)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "value_date", Message: "must be a date in YYYY-MM-DD format"}
	}

	return valueDate, nil
}
