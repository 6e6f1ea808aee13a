// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package delta defines the deltas emitted by the all-watcher feed and
// decodes them from their wire form.
//
// On the wire a delta is a three element JSON array:
//
//	["unit", "change", {"model-uuid": "...", "name": "ceph/0", ...}]
//
// Decoding turns that into a Delta whose Entity is one of a closed set
// of payload types, so consumers can switch on the concrete type rather
// than on loosely typed maps.
package delta

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/juju/errors"
)

// EntityKind names the kind of entity a delta is about.
type EntityKind string

const (
	KindAction      EntityKind = "action"
	KindAnnotation  EntityKind = "annotation"
	KindApplication EntityKind = "application"
	KindCharm       EntityKind = "charm"
	KindMachine     EntityKind = "machine"
	KindModel       EntityKind = "model"
	KindRelation    EntityKind = "relation"
	KindUnit        EntityKind = "unit"
)

// ChangeKind names what happened to the entity.
type ChangeKind string

const (
	Add    ChangeKind = "add"
	Change ChangeKind = "change"
	Remove ChangeKind = "remove"
)

// EntityID identifies an entity within the feed.
type EntityID struct {
	Kind      EntityKind
	ModelUUID string
	ID        string
}

// EntityInfo is implemented by every delta payload type. The set of
// implementations is closed to this package.
type EntityInfo interface {
	// EntityID returns the identity of the entity.
	EntityID() EntityID

	// Validate returns an error if a field required to apply the
	// payload is missing.
	Validate() error

	sealed()
}

// Delta holds a single change to an entity.
type Delta struct {
	Change ChangeKind
	Entity EntityInfo
}

// Kind returns the kind of entity the delta is about.
func (d Delta) Kind() EntityKind {
	if d.Entity == nil {
		return ""
	}
	return d.Entity.EntityID().Kind
}

// Removed reports whether the delta removes its entity.
func (d Delta) Removed() bool {
	return d.Change == Remove
}

// MarshalJSON implements json.Marshaler.
func (d Delta) MarshalJSON() ([]byte, error) {
	if d.Entity == nil {
		return nil, errors.New("cannot marshal delta without entity")
	}
	b, err := json.Marshal(d.Entity)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteByte('[')
	fmt.Fprintf(&buf, "%q,%q,", d.Kind(), d.Change)
	buf.Write(b)
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Delta) UnmarshalJSON(data []byte) error {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return errors.NotValidf("delta %s", truncate(data))
	}
	if len(elements) != 3 {
		return errors.NotValidf("delta with %d elements", len(elements))
	}
	var kind EntityKind
	var change ChangeKind
	if err := json.Unmarshal(elements[0], &kind); err != nil {
		return errors.NotValidf("delta entity kind %s", elements[0])
	}
	if err := json.Unmarshal(elements[1], &change); err != nil {
		return errors.NotValidf("delta change kind %s", elements[1])
	}
	switch change {
	case Add, Change, Remove:
	default:
		return errors.NotValidf("%s delta change kind %q", kind, change)
	}

	entity, err := newEntityInfo(kind)
	if err != nil {
		return errors.Trace(err)
	}
	if err := json.Unmarshal(elements[2], entity); err != nil {
		return errors.Annotatef(err, "decoding %s %s payload", kind, change)
	}
	if err := entity.Validate(); err != nil {
		return errors.Annotatef(err, "%s %s payload", kind, change)
	}
	d.Change = change
	d.Entity = entity
	return nil
}

func newEntityInfo(kind EntityKind) (EntityInfo, error) {
	switch kind {
	case KindAction:
		return new(ActionInfo), nil
	case KindAnnotation:
		return new(AnnotationInfo), nil
	case KindApplication:
		return new(ApplicationInfo), nil
	case KindCharm:
		return new(CharmInfo), nil
	case KindMachine:
		return new(MachineInfo), nil
	case KindModel:
		return new(ModelInfo), nil
	case KindRelation:
		return new(RelationInfo), nil
	case KindUnit:
		return new(UnitInfo), nil
	}
	return nil, errors.NotValidf("entity kind %q", kind)
}

// Decode decodes each raw delta independently. Deltas that cannot be
// decoded are reported in errs, keyed by their position in raw, and
// left out of the result; the remaining deltas keep their order.
func Decode(raw []json.RawMessage) (deltas []Delta, errs map[int]error) {
	deltas = make([]Delta, 0, len(raw))
	for i, data := range raw {
		var d Delta
		if err := json.Unmarshal(data, &d); err != nil {
			if errs == nil {
				errs = make(map[int]error)
			}
			errs[i] = err
			continue
		}
		deltas = append(deltas, d)
	}
	return deltas, errs
}

func truncate(data []byte) string {
	const max = 64
	if len(data) <= max {
		return string(data)
	}
	return string(data[:max]) + "..."
}
