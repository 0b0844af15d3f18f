package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/mailpin/mailpin/internal/utils"
)

// DefaultMailboxHash is stored when the inbound payload carries no
// mailbox disambiguation tag
const DefaultMailboxHash = "low"

// Email represents one ingested inbound email
type Email struct {
	ID string `gorm:"column:id;type:varchar(50);primaryKey"`

	// Sender and recipient metadata
	FromAddress   string         `gorm:"column:from_address;type:varchar(255);index"`
	FromName      string         `gorm:"column:from_name;type:varchar(255)"`
	ToAddress     string         `gorm:"column:to_address;type:varchar(255);index"`
	ToName        string         `gorm:"column:to_name;type:varchar(255)"`
	ToMailboxHash string         `gorm:"column:to_mailbox_hash;type:varchar(255);index"`
	CcAddresses   pq.StringArray `gorm:"column:cc_addresses;type:text[]"`

	// Content
	Subject  string `gorm:"column:subject;type:varchar(1000)"`
	TextBody string `gorm:"column:text_body;type:text"`
	HTMLBody string `gorm:"column:html_body;type:text"`

	// SubmissionHash is the short receipt identifier shown to the sender.
	// Server-generated, never client-supplied.
	SubmissionHash string `gorm:"column:submission_hash;type:varchar(12);uniqueIndex;not null"`

	// ReceivedAt is assigned at persistence time, not taken from the payload
	ReceivedAt time.Time `gorm:"column:received_at;type:timestamp;index"`

	Attachments []EmailAttachment `gorm:"foreignKey:EmailID"`

	// Standard timestamps
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

func (Email) TableName() string {
	return "emails"
}

func (e *Email) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = utils.GenerateNanoIDWithPrefix("email", 24)
	}
	e.CreatedAt = utils.Now()
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = e.CreatedAt
	}
	return nil
}
