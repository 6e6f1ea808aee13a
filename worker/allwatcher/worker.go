// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package allwatcher provides a worker that pumps the delta feed of one
// model into the model cache.
package allwatcher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/juju/errors"
	"gopkg.in/tomb.v2"

	"github.com/juju/juju-dashboard/core/delta"
	"github.com/juju/juju-dashboard/core/reconciler"
)

// stopTimeout bounds the call releasing the server side watcher.
const stopTimeout = 10 * time.Second

// Watcher is the client side of a delta feed.
type Watcher interface {
	Next(ctx context.Context) ([]json.RawMessage, error)
	Stop(ctx context.Context) error
}

// Sink receives the decoded deltas.
type Sink interface {
	ApplyDeltas(modelUUID string, deltas []delta.Delta) (reconciler.Result, error)
}

// Logger represents the logging methods called.
type Logger interface {
	Warningf(message string, args ...interface{})
	Debugf(message string, args ...interface{})
}

// Config holds the dependencies of the worker.
type Config struct {
	ModelUUID string
	Watcher   Watcher
	Sink      Sink
	Logger    Logger
}

// Validate returns an error if the config cannot be used.
func (config Config) Validate() error {
	if config.ModelUUID == "" {
		return errors.NotValidf("empty ModelUUID")
	}
	if config.Watcher == nil {
		return errors.NotValidf("nil Watcher")
	}
	if config.Sink == nil {
		return errors.NotValidf("nil Sink")
	}
	if config.Logger == nil {
		return errors.NotValidf("nil Logger")
	}
	return nil
}

// Worker reads batches from the feed until it is killed or the feed
// fails.
type Worker struct {
	tomb   tomb.Tomb
	config Config
}

// NewWorker starts a worker pumping the configured feed.
func NewWorker(config Config) (*Worker, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	w := &Worker{config: config}
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
	defer w.stopWatcher()

	ctx := w.tomb.Context(context.Background())
	uuid := w.config.ModelUUID
	for {
		raw, err := w.config.Watcher.Next(ctx)
		if err != nil {
			select {
			case <-w.tomb.Dying():
				return tomb.ErrDying
			default:
			}
			return errors.Annotatef(err, "watching model %q", uuid)
		}
		deltas, errs := delta.Decode(raw)
		for i, err := range errs {
			w.config.Logger.Warningf("skipping delta %d for model %q: %v", i, uuid, err)
		}
		if len(deltas) == 0 {
			continue
		}
		result, err := w.config.Sink.ApplyDeltas(uuid, deltas)
		if err != nil {
			return errors.Trace(err)
		}
		w.config.Logger.Debugf("model %q: applied %d deltas, skipped %d", uuid, result.Applied, result.Skipped+len(errs))
	}
}

func (w *Worker) stopWatcher() {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := w.config.Watcher.Stop(ctx); err != nil {
		w.config.Logger.Debugf("stopping watcher of model %q: %v", w.config.ModelUUID, err)
	}
}
