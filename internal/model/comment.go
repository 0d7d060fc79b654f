package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestComment is a threaded note attached to a request, independent of its
// workflow stage. Comments are append-only from the engine's point of view.
type RequestComment struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID      uuid.UUID `gorm:"type:uuid;not null;index" json:"request_id"`
	UserID         string    `gorm:"type:varchar(50);not null" json:"user_id"`
	UserName       string    `gorm:"type:varchar(255);not null" json:"user_name"`
	CommentText    string    `gorm:"type:text;not null" json:"comment_text"`
	MentionedUsers []string  `gorm:"serializer:json" json:"mentioned_users,omitempty"`
	IsInternal     bool      `gorm:"not null;default:false" json:"is_internal"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
