// Package timezone resolves IANA timezone names from coordinates offline.
package timezone

import (
	"fmt"
	"sync"

	"github.com/ringsaturn/tzf"
)

// Service implements domain.TimezoneFinder using tzf.
type Service struct {
	finder tzf.F
	mu     sync.RWMutex
}

var (
	instance *Service
	initErr  error
	once     sync.Once
)

// NewService creates or returns the shared timezone service. The finder keeps
// its polygon data in memory, so it is loaded once per process.
func NewService() (*Service, error) {
	once.Do(func() {
		finder, err := tzf.NewDefaultFinder()
		if err != nil {
			initErr = fmt.Errorf("failed to initialize timezone finder: %w", err)
			return
		}
		instance = &Service{finder: finder}
	})
	if initErr != nil {
		return nil, initErr
	}
	return instance, nil
}

// GetTimezone returns the IANA timezone name for the given coordinates, like
// "Europe/Lisbon".
func (s *Service) GetTimezone(latitude, longitude float64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// tzf takes longitude first.
	name := s.finder.GetTimezoneName(longitude, latitude)
	if name == "" {
		return "", fmt.Errorf("could not determine timezone for coordinates lat=%f, lon=%f", latitude, longitude)
	}
	return name, nil
}
