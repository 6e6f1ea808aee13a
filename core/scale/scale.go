// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package scale answers read-only questions about how many units an
// application has and where they run.
//
// Subordinate units are never top-level entries in a snapshot: they live
// in the Subordinates map of the unit they ride along with. Every lookup
// here resolves through that nesting, and a subordinate unit is treated
// as running on its parent's machine.
package scale

import (
	"sort"

	"github.com/juju/collections/set"
	"github.com/juju/naturalsort"

	"github.com/juju/juju-dashboard/core/modelstate"
)

// AppScale returns the number of units of the named application. A
// subordinate application has one unit per parent unit, so its scale is
// the sum of the unit counts of the applications it is subordinate to.
func AppScale(snap *modelstate.Snapshot, appName string) int {
	app, ok := snap.Applications[appName]
	if !ok {
		return 0
	}
	if !app.IsSubordinate() {
		return app.UnitCount
	}
	total := 0
	for _, parent := range app.SubordinateTo {
		if p, ok := snap.Applications[parent]; ok {
			total += p.UnitCount
		}
	}
	return total
}

// CombinedScale returns the number of distinct units hosting the named
// applications. Subordinates contribute the units of their parents, and
// each non-subordinate application is counted once however many times it
// is reached.
func CombinedScale(snap *modelstate.Snapshot, appNames ...string) int {
	counted := set.NewStrings()
	for _, name := range appNames {
		app, ok := snap.Applications[name]
		if !ok {
			continue
		}
		if app.IsSubordinate() {
			counted = counted.Union(set.NewStrings(app.SubordinateTo...))
		} else {
			counted.Add(name)
		}
	}
	total := 0
	for _, name := range counted.Values() {
		app, ok := snap.Applications[name]
		if !ok || app.IsSubordinate() {
			continue
		}
		total += app.UnitCount
	}
	return total
}

// AppUnits returns the units of the named application ordered by key.
// For a subordinate application these are the nested units found under
// its parents.
func AppUnits(snap *modelstate.Snapshot, appName string) []*modelstate.Unit {
	var units []*modelstate.Unit
	for key, u := range snap.Units {
		if key.Application == appName {
			units = append(units, u)
		}
		for subKey, sub := range u.Subordinates {
			if subKey.Application == appName {
				units = append(units, sub)
			}
		}
	}
	sortUnits(units)
	return units
}

// AppMachines returns the IDs of the machines hosting units of the named
// application, in natural order.
func AppMachines(snap *modelstate.Snapshot, appName string) []string {
	machines := set.NewStrings()
	for _, u := range snap.Units {
		if u.MachineID == "" {
			continue
		}
		if u.Key.Application == appName {
			machines.Add(u.MachineID)
			continue
		}
		for subKey := range u.Subordinates {
			if subKey.Application == appName {
				machines.Add(u.MachineID)
				break
			}
		}
	}
	return naturalsort.Sort(machines.Values())
}

// MachineUnits returns the units placed on the machine, ordered by key.
// Subordinates of those units are included.
func MachineUnits(snap *modelstate.Snapshot, machineID string) []*modelstate.Unit {
	var units []*modelstate.Unit
	for _, u := range snap.Units {
		if u.MachineID != machineID {
			continue
		}
		units = append(units, u)
		for _, sub := range u.Subordinates {
			units = append(units, sub)
		}
	}
	sortUnits(units)
	return units
}

// MachineApps returns the names of the applications with units on the
// machine, subordinates included, in natural order.
func MachineApps(snap *modelstate.Snapshot, machineID string) []string {
	apps := set.NewStrings()
	for _, u := range MachineUnits(snap, machineID) {
		apps.Add(u.Key.Application)
	}
	return naturalsort.Sort(apps.Values())
}

// StatusAppScale is AppScale for a model known only by its full status.
// Subordinate units are not listed under their own application there,
// so a subordinate's scale is the unit count of its parents.
func StatusAppScale(status *modelstate.ModelStatus, appName string) int {
	app, ok := status.Applications[appName]
	if !ok {
		return 0
	}
	if len(app.SubordinateTo) == 0 {
		return len(app.Units)
	}
	total := 0
	for _, parent := range app.SubordinateTo {
		if p, ok := status.Applications[parent]; ok {
			total += len(p.Units)
		}
	}
	return total
}

// StatusAppMachines is AppMachines for a model known only by its full
// status. A subordinate runs on the machines of the parent units that
// carry it.
func StatusAppMachines(status *modelstate.ModelStatus, appName string) []string {
	machines := set.NewStrings()
	for name, app := range status.Applications {
		for _, unit := range app.Units {
			if unit.Machine == "" {
				continue
			}
			if name == appName {
				machines.Add(unit.Machine)
				continue
			}
			for subName := range unit.Subordinates {
				if key, err := modelstate.ParseUnitKey(subName); err == nil && key.Application == appName {
					machines.Add(unit.Machine)
					break
				}
			}
		}
	}
	return naturalsort.Sort(machines.Values())
}

// Unit returns the unit with the given key, looking inside parent units
// for subordinates.
func Unit(snap *modelstate.Snapshot, key modelstate.UnitKey) (*modelstate.Unit, bool) {
	if u, ok := snap.Units[key]; ok {
		return u, true
	}
	_, sub := findSubordinate(snap, key)
	return sub, sub != nil
}

// UnitApp returns the application owning the unit with the given key.
func UnitApp(snap *modelstate.Snapshot, key modelstate.UnitKey) (*modelstate.Application, bool) {
	if _, ok := Unit(snap, key); !ok {
		return nil, false
	}
	app, ok := snap.Applications[key.Application]
	return app, ok
}

// ParentUnit returns the parent of a subordinate unit. It reports false
// for principal units and unknown keys.
func ParentUnit(snap *modelstate.Snapshot, key modelstate.UnitKey) (*modelstate.Unit, bool) {
	if _, ok := snap.Units[key]; ok {
		return nil, false
	}
	parent, _ := findSubordinate(snap, key)
	return parent, parent != nil
}

// ParentOrUnit returns the parent of a subordinate unit, or the unit
// itself when it is a principal.
func ParentOrUnit(snap *modelstate.Snapshot, key modelstate.UnitKey) (*modelstate.Unit, bool) {
	if u, ok := snap.Units[key]; ok {
		return u, true
	}
	return ParentUnit(snap, key)
}

func findSubordinate(snap *modelstate.Snapshot, key modelstate.UnitKey) (parent, sub *modelstate.Unit) {
	for _, u := range snap.Units {
		if s, ok := u.Subordinates[key]; ok {
			return u, s
		}
	}
	return nil, nil
}

func sortUnits(units []*modelstate.Unit) {
	sort.Slice(units, func(i, j int) bool {
		a, b := units[i].Key, units[j].Key
		if a.Application != b.Application {
			return a.Application < b.Application
		}
		return a.Index < b.Index
	})
}
