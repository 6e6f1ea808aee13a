// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modelstate

import (
	"sort"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
)

var logger = loggo.GetLogger("dashboard.core.modelstate")

// Store holds a snapshot per tracked model and the bookkeeping of the
// controllers those models were fetched through.
//
// A Store does no locking. It must be owned by a single goroutine and all
// writers must be funnelled through that owner.
type Store struct {
	models      map[string]*Snapshot
	controllers map[string]ControllerInfo
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		models:      make(map[string]*Snapshot),
		controllers: make(map[string]ControllerInfo),
	}
}

// Snapshot returns the snapshot for the model, if it is tracked.
func (s *Store) Snapshot(uuid string) (*Snapshot, bool) {
	snap, ok := s.models[uuid]
	return snap, ok
}

// EnsureSnapshot returns the snapshot for the model, creating an empty one
// the first time an unseen model is referenced.
func (s *Store) EnsureSnapshot(uuid string) *Snapshot {
	snap, ok := s.models[uuid]
	if !ok {
		logger.Debugf("tracking new model %q", uuid)
		snap = NewSnapshot(uuid)
		s.models[uuid] = snap
	}
	return snap
}

// ModelUUIDs returns the sorted UUIDs of all tracked models.
func (s *Store) ModelUUIDs() []string {
	uuids := make([]string, 0, len(s.models))
	for uuid := range s.models {
		uuids = append(uuids, uuid)
	}
	sort.Strings(uuids)
	return uuids
}

// RemoveModel discards the snapshot of a model that is no longer tracked.
func (s *Store) RemoveModel(uuid string) bool {
	_, ok := s.models[uuid]
	delete(s.models, uuid)
	return ok
}

// ForgetController discards the controller bookkeeping and every snapshot
// fetched through the controller, returning the UUIDs removed.
func (s *Store) ForgetController(controllerID string) []string {
	var removed []string
	for uuid, snap := range s.models {
		if snap.ControllerID == controllerID {
			delete(s.models, uuid)
			removed = append(removed, uuid)
		}
	}
	delete(s.controllers, controllerID)
	sort.Strings(removed)
	return removed
}

// SetModelStatus stores the fetched status of a model, clearing any
// previously recorded fetch error.
func (s *Store) SetModelStatus(uuid string, status ModelStatus) {
	snap := s.EnsureSnapshot(uuid)
	snap.Status = &status
	snap.StatusError = ""
}

// SetModelStatusError records why fetching the status of a model failed.
// Any previously fetched status is kept.
func (s *Store) SetModelStatusError(uuid string, message string) {
	s.EnsureSnapshot(uuid).StatusError = message
}

// SetModelDetails stores the model information fetched through the
// given controller.
func (s *Store) SetModelDetails(controllerID string, details ModelDetails) error {
	if details.UUID == "" {
		return errors.NotValidf("model details without uuid")
	}
	snap := s.EnsureSnapshot(details.UUID)
	snap.ControllerID = controllerID
	snap.Details = &details
	return nil
}

// SetControllerLocation records the cloud and region a controller is
// hosted on.
func (s *Store) SetControllerLocation(controllerID, cloud, region string) {
	s.controllers[controllerID] = ControllerInfo{
		Cloud:  cloud,
		Region: region,
	}
}

// Controller returns the bookkeeping for the controller.
func (s *Store) Controller(controllerID string) (ControllerInfo, error) {
	info, ok := s.controllers[controllerID]
	if !ok {
		return ControllerInfo{}, errors.NotFoundf("controller %q", controllerID)
	}
	return info, nil
}
