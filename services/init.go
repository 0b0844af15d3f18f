package services

import (
	"github.com/mailpin/mailpin/config"
	"github.com/mailpin/mailpin/interfaces"
	"github.com/mailpin/mailpin/internal/logger"
	"github.com/mailpin/mailpin/internal/repository"
	"github.com/mailpin/mailpin/services/events"
	"github.com/mailpin/mailpin/services/geo"
	"github.com/mailpin/mailpin/services/ingestion"
	"github.com/mailpin/mailpin/services/notifier"
)

type Services struct {
	GeoService       interfaces.GeoService
	NotifierService  interfaces.NotifierService
	EventsPublisher  interfaces.EventsPublisher
	IngestionService interfaces.IngestionService
}

func InitServices(cfg *config.Config, log logger.Logger, repos *repository.Repositories) (*Services, error) {
	geoService := geo.NewGeoService(log)
	notifierService := notifier.NewPostmarkNotifier(log, cfg.PostmarkConfig)

	eventsPublisher, err := events.NewPublisher(cfg.AppConfig.RabbitMQURL, log)
	if err != nil {
		return nil, err
	}

	services := Services{
		GeoService:       geoService,
		NotifierService:  notifierService,
		EventsPublisher:  eventsPublisher,
		IngestionService: ingestion.NewIngestionService(log, repos, geoService, notifierService, eventsPublisher),
	}

	return &services, nil
}
