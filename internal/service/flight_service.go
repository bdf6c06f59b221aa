package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	models "github.com/skritek/flightbook/internal"
	"github.com/skritek/flightbook/internal/ports"
)

type flightService struct {
	repo  ports.FlightRepository
	cache ports.FlightCache
	log   *logrus.Logger
}

type FlightServiceOption func(*flightService)

func WithFlightCache(cache ports.FlightCache) FlightServiceOption {
	return func(s *flightService) {
		s.cache = cache
	}
}

func WithFlightLogger(log *logrus.Logger) FlightServiceOption {
	return func(s *flightService) {
		s.log = log
	}
}

func NewFlightService(repo ports.FlightRepository, opts ...FlightServiceOption) *flightService {
	s := &flightService{
		repo: repo,
		log:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *flightService) GetFlight(ctx context.Context, id string) (*models.Flight, error) {
	return s.repo.GetFlightByID(ctx, id)
}

// SearchFlights is cache-aside: a cache failure degrades to the store, it
// never fails the search.
func (s *flightService) SearchFlights(ctx context.Context, req models.SearchFlightsRequest) ([]models.Flight, error) {
	if req.Passengers < 1 {
		req.Passengers = 1
	}
	key := searchKey(req)

	if s.cache != nil {
		flights, err := s.cache.GetFlights(ctx, key)
		if err != nil {
			s.log.WithField("key", key).WithError(err).Warn("flight cache read failed")
		} else if flights != nil {
			return flights, nil
		}
	}

	flights, err := s.repo.SearchFlights(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("error searching flights: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, key, flights); err != nil {
			s.log.WithField("key", key).WithError(err).Warn("flight cache write failed")
		}
	}
	return flights, nil
}

func (s *flightService) SearchAirports(ctx context.Context, query string) ([]models.Airport, error) {
	airports, err := s.repo.SearchAirports(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error searching airports: %w", err)
	}
	return airports, nil
}

func searchKey(req models.SearchFlightsRequest) string {
	return fmt.Sprintf("flights:search:%s:%s:%s:%d",
		strings.ToLower(strings.TrimSpace(req.Departure)),
		strings.ToLower(strings.TrimSpace(req.Arrival)),
		req.Date.Format("2006-01-02"),
		req.Passengers,
	)
}
