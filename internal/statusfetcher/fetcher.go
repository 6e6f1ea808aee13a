// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package statusfetcher fetches the status and metadata of a batch of
// models through one controller connection.
package statusfetcher

import (
	"context"
	"sync"

	"github.com/juju/errors"
	"golang.org/x/sync/semaphore"

	"github.com/juju/juju-dashboard/core/modelstate"
)

// DefaultConcurrency is the number of models fetched at once unless
// configured otherwise. Fetches are serialised to bound the load placed
// on the controller.
const DefaultConcurrency = 1

// Logger represents the logging methods called.
type Logger interface {
	Errorf(message string, args ...interface{})
	Warningf(message string, args ...interface{})
	Infof(message string, args ...interface{})
	Debugf(message string, args ...interface{})
}

// Session reports whether the controller login is still valid.
type Session interface {
	Authenticated() bool
}

// StatusSource fetches the status of a single model.
type StatusSource interface {
	ModelStatus(ctx context.Context, modelUUID string) (modelstate.ModelStatus, error)
}

// ModelInfoSource fetches model metadata from the controller.
type ModelInfoSource interface {
	ModelInfo(ctx context.Context, modelUUID string) (modelstate.ModelDetails, error)
}

// Store is where fetched results are written.
type Store interface {
	SetModelStatus(modelUUID string, status modelstate.ModelStatus) error
	SetModelStatusError(modelUUID, message string) error
	SetModelDetails(controllerID string, details modelstate.ModelDetails) error
	SetControllerLocation(controllerID, cloud, region string) error
}

// Config holds the dependencies of a Fetcher.
type Config struct {
	// ControllerID identifies the controller the models are fetched
	// through.
	ControllerID string

	Session   Session
	Status    StatusSource
	ModelInfo ModelInfoSource
	Store     Store
	Logger    Logger

	// Concurrency caps the number of models fetched at once. Zero
	// means DefaultConcurrency.
	Concurrency int

	// Metrics may be nil.
	Metrics *Metrics
}

// Validate returns an error if the config cannot be used.
func (config Config) Validate() error {
	if config.ControllerID == "" {
		return errors.NotValidf("empty ControllerID")
	}
	if config.Session == nil {
		return errors.NotValidf("nil Session")
	}
	if config.Status == nil {
		return errors.NotValidf("nil Status")
	}
	if config.ModelInfo == nil {
		return errors.NotValidf("nil ModelInfo")
	}
	if config.Store == nil {
		return errors.NotValidf("nil Store")
	}
	if config.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	if config.Concurrency < 0 {
		return errors.NotValidf("negative Concurrency")
	}
	return nil
}

// Fetcher fetches model status and metadata with a hard cap on the
// number of models in flight. The cap is shared by every FetchAll call
// on the same Fetcher.
type Fetcher struct {
	config Config
	sem    *semaphore.Weighted
}

// New returns a Fetcher for the given config.
func New(config Config) (*Fetcher, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if config.Concurrency == 0 {
		config.Concurrency = DefaultConcurrency
	}
	return &Fetcher{
		config: config,
		sem:    semaphore.NewWeighted(int64(config.Concurrency)),
	}, nil
}

// FetchAll fetches every model in the order given and returns once each
// has been attempted. It never fails as a whole: problems with one model
// are logged, recorded against that model, and the next model is
// attempted. A cancelled context stops models that have not yet started.
func (f *Fetcher) FetchAll(ctx context.Context, modelUUIDs []string) {
	var wg sync.WaitGroup
	for i, uuid := range modelUUIDs {
		err := ctx.Err()
		if err == nil {
			err = f.sem.Acquire(ctx, 1)
		}
		if err != nil {
			f.config.Logger.Infof("fetch of %d models abandoned: %v", len(modelUUIDs)-i, err)
			f.config.Metrics.observe(outcomeCancelled, len(modelUUIDs)-i)
			break
		}
		wg.Add(1)
		go func(uuid string) {
			defer wg.Done()
			defer f.sem.Release(1)
			f.config.Metrics.inFlight(1)
			defer f.config.Metrics.inFlight(-1)
			f.config.Metrics.observe(f.fetch(ctx, uuid), 1)
		}(uuid)
	}
	wg.Wait()
}

func (f *Fetcher) fetch(ctx context.Context, uuid string) string {
	logger := f.config.Logger
	if !f.config.Session.Authenticated() {
		logger.Debugf("controller %q not logged in, skipping model %q", f.config.ControllerID, uuid)
		return outcomeSkipped
	}

	outcome := outcomeFetched
	status, err := f.config.Status.ModelStatus(ctx, uuid)
	if err != nil {
		logger.Errorf("fetching status of model %q: %v", uuid, err)
		outcome = outcomeFailed
		if err := f.config.Store.SetModelStatusError(uuid, err.Error()); err != nil {
			logger.Warningf("recording status error of model %q: %v", uuid, err)
		}
	} else if err := f.config.Store.SetModelStatus(uuid, status); err != nil {
		logger.Warningf("storing status of model %q: %v", uuid, err)
		outcome = outcomeFailed
	}

	// The session may have ended while the status was in flight.
	if !f.config.Session.Authenticated() {
		logger.Debugf("controller %q logged out while fetching model %q", f.config.ControllerID, uuid)
		if outcome == outcomeFetched {
			outcome = outcomeSkipped
		}
		return outcome
	}

	details, err := f.config.ModelInfo.ModelInfo(ctx, uuid)
	if err != nil {
		logger.Errorf("fetching info of model %q: %v", uuid, err)
		return outcomeFailed
	}
	if err := f.config.Store.SetModelDetails(f.config.ControllerID, details); err != nil {
		logger.Warningf("storing info of model %q: %v", uuid, err)
		return outcomeFailed
	}
	if details.IsController {
		err := f.config.Store.SetControllerLocation(f.config.ControllerID, details.Cloud, details.CloudRegion)
		if err != nil {
			logger.Warningf("storing location of controller %q: %v", f.config.ControllerID, err)
			return outcomeFailed
		}
	}
	return outcome
}
