// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modelcache

import (
	"sync"

	"github.com/juju/pubsub/v2"
	"gopkg.in/tomb.v2"
)

// ModelWatcher notifies when a single model changes. Notifications are
// coalesced: a reader that falls behind sees one pending notification,
// not one per change.
type ModelWatcher struct {
	tomb    tomb.Tomb
	changes chan struct{}
	// mu guards closed; onChange must not send once changes is closed.
	mu     sync.Mutex
	closed bool

	modelUUID string
	logger    Logger
}

// NewModelWatcher returns a watcher of the model with the given UUID.
// The initial event is sent straight away.
func NewModelWatcher(hub *pubsub.SimpleHub, modelUUID string, logger Logger) *ModelWatcher {
	w := &ModelWatcher{
		changes:   make(chan struct{}, 1),
		modelUUID: modelUUID,
		logger:    logger,
	}
	w.changes <- struct{}{}
	unsubChanged := hub.Subscribe(ModelChangedTopic, w.onChange)
	unsubRemoved := hub.Subscribe(ModelRemovedTopic, w.onChange)
	w.tomb.Go(func() error {
		<-w.tomb.Dying()
		unsubChanged()
		unsubRemoved()
		return nil
	})
	return w
}

// Changes returns the channel notifications are sent on. It is closed
// when the watcher is killed.
func (w *ModelWatcher) Changes() <-chan struct{} {
	return w.changes
}

// Kill is part of the worker.Worker interface.
func (w *ModelWatcher) Kill() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	// The watcher must be dying before the channel is closed, so that a
	// reader seeing the close also sees a dying watcher.
	w.tomb.Kill(nil)
	w.closed = true
	close(w.changes)
}

// Wait is part of the worker.Worker interface.
func (w *ModelWatcher) Wait() error {
	return w.tomb.Wait()
}

// Stop kills the watcher and waits for it to finish.
func (w *ModelWatcher) Stop() error {
	w.Kill()
	return w.Wait()
}

func (w *ModelWatcher) onChange(topic string, data interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	change, ok := data.(ModelChanged)
	if !ok {
		w.logger.Warningf("programming error: %s data expected ModelChanged, got %T", topic, data)
		return
	}
	if change.ModelUUID != w.modelUUID {
		return
	}
	select {
	case w.changes <- struct{}{}:
	default:
		// A notification is already pending.
	}
}
