// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package modelcache provides the worker that owns the entity store.
//
// The store does no locking of its own. The worker serialises every
// write and read through its own goroutine, and announces changes on a
// pubsub hub so that readers know when to look again.
package modelcache

import (
	"github.com/juju/errors"
	"github.com/juju/pubsub/v2"
	"github.com/mohae/deepcopy"
	"gopkg.in/tomb.v2"

	"github.com/juju/juju-dashboard/core/delta"
	"github.com/juju/juju-dashboard/core/modelstate"
	"github.com/juju/juju-dashboard/core/reconciler"
)

const (
	// ModelChangedTopic is published with a ModelChanged payload every
	// time a model's snapshot is written to.
	ModelChangedTopic = "model-changed"

	// ModelRemovedTopic is published with a ModelChanged payload when a
	// model's snapshot is discarded.
	ModelRemovedTopic = "model-removed"

	// ErrDead is returned by calls made after the worker has stopped.
	ErrDead = errors.ConstError("model cache worker is dead")
)

// ModelChanged is the payload of the topics published by the worker.
type ModelChanged struct {
	ModelUUID string
}

// Logger represents the logging methods called.
type Logger interface {
	Warningf(message string, args ...interface{})
	Debugf(message string, args ...interface{})
	Tracef(message string, args ...interface{})
}

// Config holds the dependencies of the worker.
type Config struct {
	// Hub receives change notifications.
	Hub *pubsub.SimpleHub

	// Reconciler applies deltas. When nil, a reconciler without
	// metrics is used.
	Reconciler *reconciler.Reconciler

	Logger Logger
}

// Validate returns an error if the config cannot be used.
func (config Config) Validate() error {
	if config.Hub == nil {
		return errors.NotValidf("nil Hub")
	}
	if config.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	return nil
}

// changes lists the models a request touched.
type changes struct {
	changed []string
	removed []string
}

type request struct {
	apply func(*modelstate.Store) (changes, error)
	reply chan error
}

// Worker owns a modelstate.Store.
type Worker struct {
	tomb       tomb.Tomb
	config     Config
	reconciler *reconciler.Reconciler
	store      *modelstate.Store
	requests   chan request
}

// NewWorker starts a worker owning an empty store.
func NewWorker(config Config) (*Worker, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	rec := config.Reconciler
	if rec == nil {
		rec = reconciler.New(nil)
	}
	w := &Worker{
		config:     config,
		reconciler: rec,
		store:      modelstate.NewStore(),
		requests:   make(chan request),
	}
	w.tomb.Go(w.loop)
	return w, nil
}

// Kill is part of the worker.Worker interface.
func (w *Worker) Kill() {
	w.tomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (w *Worker) Wait() error {
	return w.tomb.Wait()
}

func (w *Worker) loop() error {
	for {
		select {
		case <-w.tomb.Dying():
			return tomb.ErrDying
		case req := <-w.requests:
			result, err := req.apply(w.store)
			req.reply <- err
			w.publish(result)
		}
	}
}

func (w *Worker) publish(c changes) {
	for _, uuid := range c.changed {
		w.config.Logger.Tracef("model %q changed", uuid)
		w.config.Hub.Publish(ModelChangedTopic, ModelChanged{ModelUUID: uuid})
	}
	for _, uuid := range c.removed {
		w.config.Logger.Debugf("model %q removed", uuid)
		w.config.Hub.Publish(ModelRemovedTopic, ModelChanged{ModelUUID: uuid})
	}
}

// do runs apply on the worker's goroutine and waits for it to finish.
func (w *Worker) do(apply func(*modelstate.Store) (changes, error)) error {
	req := request{
		apply: apply,
		reply: make(chan error, 1),
	}
	select {
	case w.requests <- req:
	case <-w.tomb.Dying():
		return ErrDead
	}
	select {
	case err := <-req.reply:
		return err
	case <-w.tomb.Dead():
		return ErrDead
	}
}

func changed(uuids ...string) changes {
	return changes{changed: uuids}
}

// ApplyDeltas applies a batch of deltas received on the feed of the
// given model.
func (w *Worker) ApplyDeltas(modelUUID string, deltas []delta.Delta) (reconciler.Result, error) {
	var result reconciler.Result
	err := w.do(func(store *modelstate.Store) (changes, error) {
		result = w.reconciler.Apply(store, modelUUID, deltas)
		if result.Skipped > 0 {
			w.config.Logger.Warningf("skipped %d malformed deltas for model %q", result.Skipped, modelUUID)
		}
		return changed(result.Models...), nil
	})
	return result, err
}

// SetModelStatus stores the fetched status of a model.
func (w *Worker) SetModelStatus(modelUUID string, status modelstate.ModelStatus) error {
	return w.do(func(store *modelstate.Store) (changes, error) {
		store.SetModelStatus(modelUUID, status)
		return changed(modelUUID), nil
	})
}

// SetModelStatusError records a failure to fetch a model's status.
func (w *Worker) SetModelStatusError(modelUUID, message string) error {
	return w.do(func(store *modelstate.Store) (changes, error) {
		store.SetModelStatusError(modelUUID, message)
		return changed(modelUUID), nil
	})
}

// SetModelDetails stores model metadata fetched through a controller.
func (w *Worker) SetModelDetails(controllerID string, details modelstate.ModelDetails) error {
	return w.do(func(store *modelstate.Store) (changes, error) {
		if err := store.SetModelDetails(controllerID, details); err != nil {
			return changes{}, errors.Trace(err)
		}
		return changed(details.UUID), nil
	})
}

// SetControllerLocation records where a controller is hosted.
func (w *Worker) SetControllerLocation(controllerID, cloud, region string) error {
	return w.do(func(store *modelstate.Store) (changes, error) {
		store.SetControllerLocation(controllerID, cloud, region)
		return changes{}, nil
	})
}

// RemoveModel discards a model that is no longer tracked.
func (w *Worker) RemoveModel(modelUUID string) error {
	return w.do(func(store *modelstate.Store) (changes, error) {
		if !store.RemoveModel(modelUUID) {
			return changes{}, nil
		}
		return changes{removed: []string{modelUUID}}, nil
	})
}

// ForgetController discards every model fetched through the controller
// along with the controller's bookkeeping, as on logout.
func (w *Worker) ForgetController(controllerID string) ([]string, error) {
	var removed []string
	err := w.do(func(store *modelstate.Store) (changes, error) {
		removed = store.ForgetController(controllerID)
		return changes{removed: removed}, nil
	})
	return removed, err
}

// Read calls fn with the store on the worker's goroutine. fn must not
// retain the store or anything reachable from it.
func (w *Worker) Read(fn func(*modelstate.Store)) error {
	return w.do(func(store *modelstate.Store) (changes, error) {
		fn(store)
		return changes{}, nil
	})
}

// Snapshot returns a deep copy of the model's snapshot, safe to use on
// any goroutine.
func (w *Worker) Snapshot(modelUUID string) (*modelstate.Snapshot, error) {
	var snap *modelstate.Snapshot
	err := w.do(func(store *modelstate.Store) (changes, error) {
		current, ok := store.Snapshot(modelUUID)
		if !ok {
			return changes{}, errors.NotFoundf("model %q", modelUUID)
		}
		snap = deepcopy.Copy(current).(*modelstate.Snapshot)
		return changes{}, nil
	})
	return snap, err
}

// ModelUUIDs returns the UUIDs of the tracked models.
func (w *Worker) ModelUUIDs() ([]string, error) {
	var uuids []string
	err := w.Read(func(store *modelstate.Store) {
		uuids = store.ModelUUIDs()
	})
	return uuids, err
}

// Controller returns the bookkeeping recorded for a controller.
func (w *Worker) Controller(controllerID string) (modelstate.ControllerInfo, error) {
	var info modelstate.ControllerInfo
	err := w.do(func(store *modelstate.Store) (changes, error) {
		var err error
		info, err = store.Controller(controllerID)
		return changes{}, err
	})
	return info, err
}
