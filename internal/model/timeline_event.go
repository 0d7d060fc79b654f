package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates the kinds of facts recorded against a request
type EventType string

const (
	EventCreated           EventType = "created"
	EventStatusChange      EventType = "status_change"
	EventApproved          EventType = "approved"
	EventRejected          EventType = "rejected"
	EventDisbursed         EventType = "disbursed"
	EventCommentAdded      EventType = "comment_added"
	EventDocumentUploaded  EventType = "document_uploaded"
	EventAssignmentChanged EventType = "assignment_changed"
)

// Metadata key tagging which workflow stage an event belongs to, used for
// timeline grouping on the read side
const MetadataKeyStage = "stage"

// TimelineEvent is an immutable audit record of one action taken against a
// withdrawal request. Rows are append-only: never updated, never deleted.
type TimelineEvent struct {
	ID            uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"request_id"`
	UserID        string            `gorm:"type:varchar(50);not null" json:"user_id"`
	UserName      string            `gorm:"type:varchar(255);not null" json:"user_name"`
	EventType     EventType         `gorm:"type:varchar(30);not null;index" json:"event_type"`
	Title         string            `gorm:"type:varchar(255);not null" json:"title"`
	Description   string            `gorm:"type:text" json:"description"`
	PreviousValue string            `gorm:"type:varchar(255)" json:"previous_value,omitempty"`
	NewValue      string            `gorm:"type:varchar(255)" json:"new_value,omitempty"`
	Metadata      map[string]string `gorm:"serializer:json" json:"metadata,omitempty"`
	CreatedAt     time.Time         `gorm:"index" json:"created_at"`
}
