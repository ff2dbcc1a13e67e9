package repository

type Repositories interface {
	Location() LocationRepository
}

type repositories struct {
	locationRepository LocationRepository
}

func NewRepositories() Repositories {
	return &repositories{
		locationRepository: newLocationRepository(),
	}
}

func (r repositories) Location() LocationRepository {
	return r.locationRepository
}
