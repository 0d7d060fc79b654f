package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestStage is the closed set of workflow positions a withdrawal request can occupy
type RequestStage string

const (
	StageInitialReview   RequestStage = "initial_review"
	StageTechnicalReview RequestStage = "technical_review"
	StageCoreBanking     RequestStage = "core_banking"
	StageDisbursed       RequestStage = "disbursed"
	StageApproved        RequestStage = "approved"
	StageRejected        RequestStage = "rejected"
)

// Priority levels assigned at creation and never changed by the workflow engine
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Currency enum supported for withdrawal amounts
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyAED Currency = "AED"
)

// StageTransitions is the single source of truth for which stage moves are legal.
// Terminal stages map to an empty slice.
var StageTransitions = map[RequestStage][]RequestStage{
	StageInitialReview:   {StageTechnicalReview, StageApproved, StageRejected},
	StageTechnicalReview: {StageCoreBanking, StageInitialReview, StageApproved, StageRejected},
	StageCoreBanking:     {StageDisbursed, StageApproved, StageRejected},
	StageDisbursed:       {},
	StageApproved:        {StageDisbursed},
	StageRejected:        {},
}

// CanTransition reports whether moving from one stage to another is allowed by the table
func CanTransition(from, to RequestStage) bool {
	for _, allowed := range StageTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsValidStage reports whether s is one of the declared stages
func IsValidStage(s RequestStage) bool {
	_, ok := StageTransitions[s]
	return ok
}

// Queue identifiers the engine assigns on transitions
const (
	AssigneeArchiveQueue     = "archive001"
	AssigneeOperationsQueue  = "ops001"
	AssigneeCoreBankingQueue = "bank001"
)

// Status text templates rewritten on every transition
const (
	StatusPendingInitialReview   = "Pending - Awaiting Initial Review"
	StatusPendingTechnicalReview = "Under Technical Review by Operations Team"
	StatusApprovedToCoreBanking  = "Approved - Moved to Core Banking for disbursement"
	StatusRejectedToInitial      = "Rejected - Returned to Initial Review for corrections"
	StatusDisbursed              = "Successfully disbursed"
)

// ADFDCountries lists the countries the fund operates in
var ADFDCountries = []string{
	"UAE", "Egypt", "Jordan", "Morocco", "Tunisia", "Lebanon", "Palestine",
	"Yemen", "Sudan", "Algeria", "Iraq", "Syria", "Libya", "Mauritania",
}

// WithdrawalRequest is the central entity tracked through the approval pipeline.
// Workflow fields (CurrentStage, Status, AssignedTo, ProcessingDays) are mutated
// exclusively by the workflow engine; records are never physically deleted.
type WithdrawalRequest struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectNumber   string          `gorm:"type:varchar(50);not null;index" json:"project_number"`
	RefNumber       string          `gorm:"type:varchar(50);not null;index" json:"ref_number"`
	BeneficiaryName string          `gorm:"type:varchar(255);not null" json:"beneficiary_name"`
	Country         string          `gorm:"type:varchar(100);not null;index" json:"country"`
	Amount          decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`
	Currency        Currency        `gorm:"type:varchar(3);not null" json:"currency"`
	ValueDate       time.Time       `gorm:"not null" json:"value_date"`
	CurrentStage    RequestStage    `gorm:"type:varchar(30);not null;index" json:"current_stage"`
	Status          string          `gorm:"type:varchar(255);not null" json:"status"`
	Priority        Priority        `gorm:"type:varchar(10);not null;index" json:"priority"`
	AssignedTo      string          `gorm:"type:varchar(50)" json:"assigned_to"`
	ProcessingDays  int             `gorm:"not null;default:0" json:"processing_days"`
	Notes           string          `gorm:"type:text" json:"notes"`
	Attachments     []string        `gorm:"serializer:json" json:"attachments,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
