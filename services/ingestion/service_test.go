package ingestion

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mailpin/mailpin/dto"
	"github.com/mailpin/mailpin/interfaces"
	mailpin_errors "github.com/mailpin/mailpin/internal/errors"
	"github.com/mailpin/mailpin/internal/logger"
	"github.com/mailpin/mailpin/internal/models"
	"github.com/mailpin/mailpin/internal/repository"
)

type mockEmailRepository struct {
	mock.Mock
}

func (m *mockEmailRepository) Create(ctx context.Context, email *models.Email) error {
	args := m.Called(ctx, email)
	if args.Error(0) == nil {
		email.ID = "email_test1"
		email.SubmissionHash = "abc123def456"
	}
	return args.Error(0)
}

func (m *mockEmailRepository) GetByID(ctx context.Context, id string) (*models.Email, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Email), args.Error(1)
}

func (m *mockEmailRepository) List(ctx context.Context, limit, offset int) ([]*models.Email, int64, error) {
	args := m.Called(ctx, limit, offset)
	return nil, 0, args.Error(2)
}

type mockAttachmentRepository struct {
	mock.Mock
}

func (m *mockAttachmentRepository) Create(ctx context.Context, attachment *models.EmailAttachment) error {
	args := m.Called(ctx, attachment)
	if args.Error(0) == nil && attachment.ID == "" {
		attachment.ID = "file_test1"
	}
	return args.Error(0)
}

func (m *mockAttachmentRepository) Store(ctx context.Context, attachment *models.EmailAttachment, data []byte) error {
	args := m.Called(ctx, attachment, data)
	return args.Error(0)
}

func (m *mockAttachmentRepository) GetByID(ctx context.Context, id string) (*models.EmailAttachment, error) {
	args := m.Called(ctx, id)
	return nil, args.Error(1)
}

func (m *mockAttachmentRepository) GetData(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	return nil, args.Error(1)
}

func (m *mockAttachmentRepository) ListByEmail(ctx context.Context, emailID string) ([]*models.EmailAttachment, error) {
	args := m.Called(ctx, emailID)
	return nil, args.Error(1)
}

func (m *mockAttachmentRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]*models.EmailAttachment, error) {
	args := m.Called(ctx, since)
	return nil, args.Error(1)
}

type mockGeoService struct {
	mock.Mock
}

func (m *mockGeoService) Extract(imageData []byte) *interfaces.GeoLocation {
	args := m.Called(imageData)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*interfaces.GeoLocation)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, email *models.Email, submissionHash string) bool {
	args := m.Called(ctx, email, submissionHash)
	return args.Bool(0)
}

func getLogger() logger.Logger {
	appLogger := logger.NewAppLogger(&logger.Config{
		DevMode: true,
	})
	appLogger.InitLogger()
	return appLogger
}

func newTestService(emailRepo *mockEmailRepository, attachRepo *mockAttachmentRepository, geo *mockGeoService, notify *mockNotifier) interfaces.IngestionService {
	repos := &repository.Repositories{
		EmailRepository:           emailRepo,
		EmailAttachmentRepository: attachRepo,
	}
	return NewIngestionService(getLogger(), repos, geo, notify, nil)
}

func basePayload() *dto.InboundEmail {
	return &dto.InboundEmail{
		FromFull: dto.InboundEmailAddress{Email: "sender@example.com", Name: "Sender"},
		ToFull:   []dto.InboundEmailAddress{{Email: "intake@mailpin.io", Name: "Intake", MailboxHash: "field"}},
		Subject:  "field report",
		TextBody: "see attached",
	}
}

func TestIngest_NoAttachments(t *testing.T) {
	// Arrange
	emailRepo := &mockEmailRepository{}
	attachRepo := &mockAttachmentRepository{}
	geo := &mockGeoService{}
	notify := &mockNotifier{}
	svc := newTestService(emailRepo, attachRepo, geo, notify)

	emailRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	notify.On("Notify", mock.Anything, mock.Anything, "abc123def456").Return(true)

	// Act
	emailID, err := svc.Ingest(context.Background(), basePayload())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "email_test1", emailID)
	emailRepo.AssertExpectations(t)
	notify.AssertExpectations(t)

	saved := emailRepo.Calls[0].Arguments.Get(1).(*models.Email)
	assert.Equal(t, "sender@example.com", saved.FromAddress)
	assert.Equal(t, "field", saved.ToMailboxHash)
}

func TestIngest_MissingMailboxHashGetsSentinel(t *testing.T) {
	// Arrange
	emailRepo := &mockEmailRepository{}
	attachRepo := &mockAttachmentRepository{}
	geo := &mockGeoService{}
	notify := &mockNotifier{}
	svc := newTestService(emailRepo, attachRepo, geo, notify)

	emailRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	notify.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(true)

	payload := basePayload()
	payload.ToFull[0].MailboxHash = ""

	// Act
	_, err := svc.Ingest(context.Background(), payload)

	// Assert
	require.NoError(t, err)
	saved := emailRepo.Calls[0].Arguments.Get(1).(*models.Email)
	assert.Equal(t, models.DefaultMailboxHash, saved.ToMailboxHash)
}

func TestIngest_MalformedAttachmentAbortsBeforePersist(t *testing.T) {
	// Arrange
	emailRepo := &mockEmailRepository{}
	attachRepo := &mockAttachmentRepository{}
	geo := &mockGeoService{}
	notify := &mockNotifier{}
	svc := newTestService(emailRepo, attachRepo, geo, notify)

	payload := basePayload()
	payload.Attachments = []dto.InboundEmailAttachment{
		{Name: "photo.jpg", Content: "!!!not-base64!!!", ContentType: "image/jpeg"},
	}

	// Act
	_, err := svc.Ingest(context.Background(), payload)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, mailpin_errors.ErrMalformedAttachment)
	emailRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	attachRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	notify.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestIngest_NonImageSkipsGeoExtraction(t *testing.T) {
	// Arrange
	emailRepo := &mockEmailRepository{}
	attachRepo := &mockAttachmentRepository{}
	geo := &mockGeoService{}
	notify := &mockNotifier{}
	svc := newTestService(emailRepo, attachRepo, geo, notify)

	emailRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	attachRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	attachRepo.On("Store", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	notify.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(true)

	payload := basePayload()
	payload.Attachments = []dto.InboundEmailAttachment{
		{Name: "notes.pdf", Content: base64.StdEncoding.EncodeToString([]byte("pdf bytes")), ContentType: "application/pdf"},
	}

	// Act
	_, err := svc.Ingest(context.Background(), payload)

	// Assert
	require.NoError(t, err)
	geo.AssertNotCalled(t, "Extract", mock.Anything)

	record := attachRepo.Calls[0].Arguments.Get(1).(*models.EmailAttachment)
	assert.Nil(t, record.Latitude)
	assert.Nil(t, record.Longitude)
	assert.Equal(t, "email_test1", record.EmailID)
}

func TestIngest_ImageWithGeoData(t *testing.T) {
	// Arrange
	emailRepo := &mockEmailRepository{}
	attachRepo := &mockAttachmentRepository{}
	geo := &mockGeoService{}
	notify := &mockNotifier{}
	svc := newTestService(emailRepo, attachRepo, geo, notify)

	emailRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	attachRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	attachRepo.On("Store", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	notify.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(true)
	geo.On("Extract", mock.Anything).Return(&interfaces.GeoLocation{Latitude: 37.775, Longitude: -122.4193})

	payload := basePayload()
	payload.Attachments = []dto.InboundEmailAttachment{
		{Name: "photo.jpg", Content: base64.StdEncoding.EncodeToString([]byte("jpeg bytes")), ContentType: "image/jpeg"},
	}

	// Act
	_, err := svc.Ingest(context.Background(), payload)

	// Assert
	require.NoError(t, err)
	geo.AssertExpectations(t)

	record := attachRepo.Calls[0].Arguments.Get(1).(*models.EmailAttachment)
	require.NotNil(t, record.Latitude)
	require.NotNil(t, record.Longitude)
	assert.InDelta(t, 37.775, *record.Latitude, 0.0001)
	assert.InDelta(t, -122.4193, *record.Longitude, 0.0001)
	assert.Nil(t, record.Altitude)
}

func TestIngest_NotificationFailureDoesNotFailRequest(t *testing.T) {
	// Arrange
	emailRepo := &mockEmailRepository{}
	attachRepo := &mockAttachmentRepository{}
	geo := &mockGeoService{}
	notify := &mockNotifier{}
	svc := newTestService(emailRepo, attachRepo, geo, notify)

	emailRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	notify.On("Notify", mock.Anything, mock.Anything, mock.Anything).Return(false)

	// Act
	emailID, err := svc.Ingest(context.Background(), basePayload())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "email_test1", emailID)
}

func TestIngest_EmailSaveFailure(t *testing.T) {
	// Arrange
	emailRepo := &mockEmailRepository{}
	attachRepo := &mockAttachmentRepository{}
	geo := &mockGeoService{}
	notify := &mockNotifier{}
	svc := newTestService(emailRepo, attachRepo, geo, notify)

	emailRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	// Act
	_, err := svc.Ingest(context.Background(), basePayload())

	// Assert
	require.Error(t, err)
	attachRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	notify.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}
