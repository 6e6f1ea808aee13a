// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package reconciler folds watcher deltas into the entity store.
package reconciler

import (
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/names/v5"

	"github.com/juju/juju-dashboard/core/delta"
	"github.com/juju/juju-dashboard/core/modelstate"
)

var logger = loggo.GetLogger("dashboard.core.reconciler")

// Result summarises a call to Apply.
type Result struct {
	// Applied is the number of deltas folded into the store.
	Applied int

	// Skipped is the number of malformed deltas that were dropped.
	Skipped int

	// Models holds the UUIDs of the models touched, in the order they
	// were first touched.
	Models []string
}

// Reconciler applies deltas to a store. It holds no model state of its
// own; the store is passed to every call and is expected to be owned by
// the caller's goroutine.
type Reconciler struct {
	metrics *Metrics
}

// New returns a Reconciler recording into the given metrics, which may
// be nil.
func New(metrics *Metrics) *Reconciler {
	return &Reconciler{metrics: metrics}
}

// Apply applies the deltas to the store strictly in the order given.
// Each delta is routed to the snapshot of its own model UUID; deltas
// that carry no UUID are attributed to modelUUID, the model the feed
// belongs to. Snapshots for unseen models are created on demand.
//
// A malformed delta is logged and skipped without affecting the rest of
// the batch.
func (r *Reconciler) Apply(store *modelstate.Store, modelUUID string, deltas []delta.Delta) Result {
	var result Result
	touched := make(map[string]bool)
	for i, d := range deltas {
		uuid, err := r.apply(store, modelUUID, d)
		if err != nil {
			logger.Warningf("skipping delta %d (%s %s) for model %q: %v", i, d.Kind(), d.Change, uuid, err)
			result.Skipped++
			r.metrics.observe(d, outcomeSkipped)
			continue
		}
		result.Applied++
		r.metrics.observe(d, outcomeApplied)
		if !touched[uuid] {
			touched[uuid] = true
			result.Models = append(result.Models, uuid)
		}
	}
	if result.Skipped > 0 {
		logger.Debugf("applied %d deltas, skipped %d", result.Applied, result.Skipped)
	}
	return result
}

func (r *Reconciler) apply(store *modelstate.Store, feedUUID string, d delta.Delta) (string, error) {
	if d.Entity == nil {
		return feedUUID, errors.NotValidf("delta without entity")
	}
	uuid := d.Entity.EntityID().ModelUUID
	if uuid == "" {
		uuid = feedUUID
	}
	if uuid == "" {
		return "", errors.NotValidf("delta without model uuid")
	}
	switch d.Change {
	case delta.Add, delta.Change, delta.Remove:
	default:
		return uuid, errors.NotValidf("change kind %q", d.Change)
	}
	if err := d.Entity.Validate(); err != nil {
		return uuid, errors.Trace(err)
	}
	// Validate everything that can fail before the snapshot is created,
	// so a malformed delta for an unseen model leaves no trace.
	unit, isUnit := d.Entity.(*delta.UnitInfo)
	if isUnit && unit.Key.Application == "" {
		return uuid, errors.NotValidf("unit %q without key", unit.Name)
	}

	snap := store.EnsureSnapshot(uuid)
	removed := d.Removed()
	switch info := d.Entity.(type) {
	case *delta.ActionInfo:
		if removed {
			snap.RemoveAction(info.ID)
		} else {
			snap.UpsertAction(actionFromInfo(info))
		}
	case *delta.AnnotationInfo:
		entity := annotationEntity(info.Tag)
		if removed {
			snap.SetAnnotations(entity, nil)
		} else {
			snap.SetAnnotations(entity, info.Annotations)
		}
	case *delta.ApplicationInfo:
		if removed {
			snap.RemoveApplication(info.Name)
		} else {
			snap.UpsertApplication(applicationFromInfo(info))
		}
	case *delta.CharmInfo:
		if removed {
			snap.RemoveCharm(info.CharmURL)
		} else {
			snap.UpsertCharm(charmFromInfo(info))
		}
	case *delta.MachineInfo:
		if removed {
			snap.RemoveMachine(info.ID)
		} else {
			snap.UpsertMachine(machineFromInfo(info))
		}
	case *delta.ModelInfo:
		// There is a single model entity per snapshot. Removing it only
		// clears the metadata; the snapshot itself is discarded when the
		// model stops being tracked.
		if removed {
			snap.SetModel(modelstate.ModelInfo{UUID: uuid})
		} else {
			snap.SetModel(modelFromInfo(uuid, info))
		}
	case *delta.RelationInfo:
		if removed {
			snap.RemoveRelation(info.Key)
		} else {
			snap.UpsertRelation(relationFromInfo(info))
		}
	case *delta.UnitInfo:
		if removed {
			snap.RemoveUnit(info.Key, info.PrincipalKey)
		} else if snap.UpsertUnit(unitFromInfo(info)) {
			logger.Tracef("first sighting of unit %q in model %q", info.Name, uuid)
		}
	default:
		return uuid, errors.NotValidf("entity %T", d.Entity)
	}
	return uuid, nil
}

// annotationEntity returns the bare entity name an annotation tag refers
// to: "application-ceph" becomes "ceph" and "unit-ceph-0" becomes
// "ceph/0". Tags of kinds unknown to the names package just lose their
// "<kind>-" prefix.
func annotationEntity(tag string) string {
	if parsed, err := names.ParseTag(tag); err == nil {
		return parsed.Id()
	}
	if i := strings.Index(tag, "-"); i >= 0 {
		return tag[i+1:]
	}
	return tag
}
