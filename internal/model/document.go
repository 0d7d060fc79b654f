package model

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType categorizes uploaded supporting documents
type DocumentType string

const (
	DocTypeAgreement     DocumentType = "agreement"
	DocTypeInvoice       DocumentType = "invoice"
	DocTypeReceipt       DocumentType = "receipt"
	DocTypeBankStatement DocumentType = "bank_statement"
	DocTypeOther         DocumentType = "other"
)

// RequestDocument holds metadata for a supporting document attached to a
// request. The file bytes themselves live in external storage; this core only
// tracks the reference and its verification state.
type RequestDocument struct {
	ID           uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"request_id"`
	UploadedBy   string       `gorm:"type:varchar(50);not null" json:"uploaded_by"`
	UploaderName string       `gorm:"type:varchar(255);not null" json:"uploader_name"`
	FileName     string       `gorm:"type:varchar(255);not null" json:"file_name"`
	FileSize     int64        `gorm:"not null" json:"file_size"`
	FileType     string       `gorm:"type:varchar(100)" json:"file_type"`
	DocumentType DocumentType `gorm:"type:varchar(20);not null" json:"document_type"`
	StoragePath  string       `gorm:"type:varchar(500)" json:"storage_path"`
	IsVerified   bool         `gorm:"not null;default:false" json:"is_verified"`
	VerifiedBy   string       `gorm:"type:varchar(50)" json:"verified_by,omitempty"`
	VerifiedAt   *time.Time   `json:"verified_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
