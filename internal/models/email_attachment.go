package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/mailpin/mailpin/internal/utils"
)

// EmailAttachment represents an attachment to an ingested email. The
// content column and the storage file hold the same bytes; the redundancy
// is deliberate (durability and debuggability over deduplication).
type EmailAttachment struct {
	ID      string `gorm:"column:id;type:varchar(50);primaryKey"`
	EmailID string `gorm:"column:email_id;type:varchar(50);index;not null"`

	Filename      string `gorm:"column:filename;type:varchar(500)"`
	ContentType   string `gorm:"column:content_type;type:varchar(255)"`
	ContentLength int    `gorm:"column:content_length;default:0"`
	Content       []byte `gorm:"column:content;type:bytea"`

	// Geo coordinates extracted from EXIF GPS tags, null unless the
	// attachment is a geotagged image
	Latitude  *float64 `gorm:"column:latitude"`
	Longitude *float64 `gorm:"column:longitude"`
	Altitude  *float64 `gorm:"column:altitude"`

	// StorageKey is where the bytes are written: attachment id plus the
	// original filename's extension when present. Assigned at insert so
	// the record is complete in one INSERT.
	StorageKey string `gorm:"column:storage_key;type:varchar(1000)"`

	// Standard timestamps
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:current_timestamp"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:current_timestamp"`
}

// TableName overrides the table name for EmailAttachment
func (EmailAttachment) TableName() string {
	return "email_attachments"
}

func (e *EmailAttachment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = utils.GenerateNanoIDWithPrefix("file", 12)
	}
	if e.StorageKey == "" {
		e.StorageKey = e.ID + utils.FileExtension(e.Filename)
	}
	e.CreatedAt = utils.Now()
	return nil
}

// HasGeoData reports whether coordinates were extracted for this attachment
func (e *EmailAttachment) HasGeoData() bool {
	return e.Latitude != nil && e.Longitude != nil
}
