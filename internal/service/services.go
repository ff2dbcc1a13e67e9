package service

import (
	"github.com/krakosik/telemetry/internal/client"
	"github.com/krakosik/telemetry/internal/dto"
	"github.com/krakosik/telemetry/internal/repository"
	"github.com/sirupsen/logrus"
)

type Services interface {
	Location() LocationService
}

type services struct {
	locationService LocationService
}

func NewServices(repositories repository.Repositories, config dto.Config, clients client.Clients) Services {
	var observers []SubmissionObserver
	if config.LogSubmissions {
		observers = append(observers, NewLogObserver(logrus.StandardLogger(), config.FieldSet))
	}
	observers = append(observers, NewPublishObserver(clients.Broker(), config.FieldSet))

	return &services{
		locationService: newLocationService(repositories.Location(), clients.Broker(), config.FieldSet, observers...),
	}
}

func (s services) Location() LocationService {
	return s.locationService
}
