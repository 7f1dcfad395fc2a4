package services

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Service is the interface for all long-running components.
type Service interface {
	Start() error
	Stop() error
}

// Registry manages the lifecycle of registered services: started in
// registration order with rollback on failure, stopped in reverse order.
type Registry struct {
	services    map[string]Service
	serviceKeys []string
	logger      zerolog.Logger
}

// NewRegistry initializes an empty service registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		services: make(map[string]Service),
		logger:   logger,
	}
}

// Register adds a new service to the registry.
func (r *Registry) Register(name string, svc Service) {
	if _, exists := r.services[name]; exists {
		r.logger.Warn().Msgf("Service %s is already registered", name)
		return
	}
	r.services[name] = svc
	r.serviceKeys = append(r.serviceKeys, name)
	r.logger.Info().Msgf("Registered service: %s", name)
}

// StartAll initiates all registered services in order. If a service fails
// to start, the already started ones are stopped in reverse before the
// error is returned.
func (r *Registry) StartAll() error {
	started := []string{}

	for _, name := range r.serviceKeys {
		r.logger.Info().Msgf("Starting service: %s", name)
		if err := r.services[name].Start(); err != nil {
			r.logger.Error().Err(err).Msgf("Failed to start service: %s", name)

			for i := len(started) - 1; i >= 0; i-- {
				_ = r.services[started[i]].Stop()
			}
			return err
		}
		started = append(started, name)
	}

	return nil
}

// StopAll stops all services in reverse order, joining any failures.
func (r *Registry) StopAll() error {
	var stopErrors []error
	for i := len(r.serviceKeys) - 1; i >= 0; i-- {
		name := r.serviceKeys[i]
		if err := r.services[name].Stop(); err != nil {
			stopErrors = append(stopErrors, fmt.Errorf("failed to stop %s: %w", name, err))
		}
	}
	for _, e := range stopErrors {
		r.logger.Error().Err(e).Msg("Service stop failure")
	}
	return errors.Join(stopErrors...)
}
