package repository

import (
	"sync"

	"github.com/krakosik/telemetry/internal/model"
)

// LocationRepository is an append-only, insertion-ordered record store
// held for the lifetime of the process.
type LocationRepository interface {
	Append(record model.LocationRecord)
	List() []model.LocationRecord
	Count() int
}

type location struct {
	records     []model.LocationRecord
	recordMutex sync.RWMutex
}

func newLocationRepository() LocationRepository {
	return &location{
		records: make([]model.LocationRecord, 0),
	}
}

func (l *location) Append(record model.LocationRecord) {
	l.recordMutex.Lock()
	defer l.recordMutex.Unlock()

	l.records = append(l.records, record)
}

// List returns a copy so callers never observe later appends or alias the backing array.
func (l *location) List() []model.LocationRecord {
	l.recordMutex.RLock()
	defer l.recordMutex.RUnlock()

	snapshot := make([]model.LocationRecord, len(l.records))
	copy(snapshot, l.records)
	return snapshot
}

func (l *location) Count() int {
	l.recordMutex.RLock()
	defer l.recordMutex.RUnlock()

	return len(l.records)
}
