// Package finder looks up hospitals and doctors near the patient.
package finder

import (
	"context"
	"log/slog"

	"aura/internal/domain"
)

// Locator is the backend call used by Service.
type Locator interface {
	FindPlaces(ctx context.Context, kind domain.PlaceKind, query domain.PlacesQuery) (domain.PlacesResult, error)
}

// Position is a device location. A nil *Position means the location is unknown.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Service finds healthcare providers near the user.
type Service struct {
	client Locator
	log    *slog.Logger
}

// New returns a Service backed by client.
func New(client Locator, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{client: client, log: log}
}

// FindHospitals returns hospitals within radius meters of pos.
func (s *Service) FindHospitals(ctx context.Context, pos *Position, radius int) (domain.PlacesResult, error) {
	return s.find(ctx, domain.PlaceHospital, pos, radius)
}

// FindDoctors returns doctors within radius meters of pos.
func (s *Service) FindDoctors(ctx context.Context, pos *Position, radius int) (domain.PlacesResult, error) {
	return s.find(ctx, domain.PlaceDoctor, pos, radius)
}

func (s *Service) find(ctx context.Context, kind domain.PlaceKind, pos *Position, radius int) (domain.PlacesResult, error) {
	if pos == nil {
		return domain.PlacesResult{}, &domain.PermissionError{
			Resource: "location",
			Hint:     "pass --lat and --lon and try again",
		}
	}
	if pos.Latitude < -90 || pos.Latitude > 90 {
		return domain.PlacesResult{}, &domain.ValidationError{Field: "latitude", Message: "must be within [-90, 90]"}
	}
	if pos.Longitude < -180 || pos.Longitude > 180 {
		return domain.PlacesResult{}, &domain.ValidationError{Field: "longitude", Message: "must be within [-180, 180]"}
	}
	if radius <= 0 {
		radius = domain.DefaultSearchRadius
	}

	res, err := s.client.FindPlaces(ctx, kind, domain.PlacesQuery{
		Latitude:  pos.Latitude,
		Longitude: pos.Longitude,
		Radius:    radius,
	})
	if err != nil {
		return domain.PlacesResult{}, err
	}
	if res.Count == 0 {
		res.Count = len(res.Places())
	}
	s.log.Debug("places found", "kind", kind, "count", res.Count)
	return res, nil
}
