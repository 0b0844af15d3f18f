package repository

import (
	"gorm.io/gorm"

	"github.com/mailpin/mailpin/interfaces"
	"github.com/mailpin/mailpin/internal/models"
)

type Repositories struct {
	EmailRepository           interfaces.EmailRepository
	EmailAttachmentRepository interfaces.EmailAttachmentRepository
}

func InitRepositories(db *gorm.DB, attachmentStorage interfaces.StorageService) *Repositories {
	return &Repositories{
		EmailRepository:           NewEmailRepository(db),
		EmailAttachmentRepository: NewEmailAttachmentRepository(db, attachmentStorage),
	}
}

func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Email{},
		&models.EmailAttachment{},
	)
}
