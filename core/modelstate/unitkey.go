// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modelstate

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/juju/names/v5"
)

// UnitKey is the structured form of a unit name. The "<application>/<index>"
// string form only exists at the wire boundary; everything inside the store
// is keyed by UnitKey.
type UnitKey struct {
	Application string
	Index       int
}

// ParseUnitKey converts a unit name such as "ceph/0" into a UnitKey.
func ParseUnitKey(name string) (UnitKey, error) {
	if !names.IsValidUnit(name) {
		return UnitKey{}, errors.NotValidf("unit name %q", name)
	}
	app, err := names.UnitApplication(name)
	if err != nil {
		return UnitKey{}, errors.Trace(err)
	}
	return UnitKey{
		Application: app,
		Index:       names.NewUnitTag(name).Number(),
	}, nil
}

// MustParseUnitKey is like ParseUnitKey but panics on error.
func MustParseUnitKey(name string) UnitKey {
	key, err := ParseUnitKey(name)
	if err != nil {
		panic(err)
	}
	return key
}

// String returns the wire form of the key.
func (k UnitKey) String() string {
	return fmt.Sprintf("%s/%d", k.Application, k.Index)
}
