package service

import (
	"context"
	"fmt"

	"github.com/krakosik/telemetry/internal/client"
	"github.com/krakosik/telemetry/internal/dto"
	"github.com/krakosik/telemetry/internal/model"
	"github.com/krakosik/telemetry/internal/repository"
	"github.com/sirupsen/logrus"
)

const SubmissionAcknowledgement = "✅ Datos recibidos correctamente"

type Stats struct {
	Records  int
	FieldSet model.FieldSet
}

type LocationService interface {
	Submit(ctx context.Context, record model.LocationRecord) string
	List(ctx context.Context) []model.LocationRecord
	Stats(ctx context.Context) Stats
	Subscribe(id string) (<-chan []byte, error)
	Unsubscribe(id string)
}

type locationService struct {
	locationRepository repository.LocationRepository
	broker             client.Broker
	fieldSet           model.FieldSet
	observers          []SubmissionObserver
}

func newLocationService(locationRepository repository.LocationRepository, broker client.Broker, fieldSet model.FieldSet, observers ...SubmissionObserver) LocationService {
	return &locationService{
		locationRepository: locationRepository,
		broker:             broker,
		fieldSet:           fieldSet,
		observers:          observers,
	}
}

// Submit stores the record unconditionally. Observers run after the append
// and cannot affect the stored data or the acknowledgement.
func (s *locationService) Submit(ctx context.Context, record model.LocationRecord) string {
	s.locationRepository.Append(record)

	for _, observer := range s.observers {
		observer.Observe(ctx, record)
	}

	return SubmissionAcknowledgement
}

func (s *locationService) List(_ context.Context) []model.LocationRecord {
	return s.locationRepository.List()
}

func (s *locationService) Stats(_ context.Context) Stats {
	return Stats{
		Records:  s.locationRepository.Count(),
		FieldSet: s.fieldSet,
	}
}

// Subscribe returns a feed of accepted submissions, serialized with the
// active field set. Only submissions accepted after the call are delivered.
func (s *locationService) Subscribe(id string) (<-chan []byte, error) {
	msgChan, err := s.broker.SubscribeToMessages(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}
	return msgChan, nil
}

func (s *locationService) Unsubscribe(id string) {
	if err := s.broker.UnsubscribeFromMessages(id); err != nil {
		logrus.Errorf("Error unsubscribing %s: %v", id, err)
	}
}
