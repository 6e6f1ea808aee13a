// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modelstate

import (
	"time"
)

// StatusInfo holds the status of an entity as reported by the watcher feed.
type StatusInfo struct {
	Current string
	Message string
	Version string
	Since   *time.Time
	Data    map[string]interface{}
}

// ModelInfo holds the model level metadata carried by "model" deltas.
type ModelInfo struct {
	UUID           string
	Name           string
	Type           string
	Life           string
	Owner          string
	ControllerUUID string
	IsController   bool
	Cloud          string
	CloudRegion    string
	Version        string
	Status         StatusInfo
	Config         map[string]interface{}
}

// Application represents an application in a model.
type Application struct {
	Name            string
	CharmURL        string
	Life            string
	Exposed         bool
	MinUnits        int
	WorkloadVersion string
	Status          StatusInfo
	Config          map[string]interface{}

	// Subordinate is set when the feed reports the application as
	// a subordinate, even before any of its units have landed.
	Subordinate bool

	// SubordinateTo is the ordered set of parent applications whose
	// units carry units of this application.
	SubordinateTo []string

	// UnitCount is the number of units owned by the application. It
	// is only meaningful for principal applications and is maintained
	// by the store as unit deltas arrive.
	UnitCount int
}

// IsSubordinate reports whether the application rides along with
// the units of other applications.
func (a *Application) IsSubordinate() bool {
	return a.Subordinate || len(a.SubordinateTo) > 0
}

// addSubordinateTo appends the parent to SubordinateTo, keeping it a set.
func (a *Application) addSubordinateTo(parents ...string) {
	for _, parent := range parents {
		if parent == "" || parent == a.Name {
			continue
		}
		found := false
		for _, existing := range a.SubordinateTo {
			if existing == parent {
				found = true
				break
			}
		}
		if !found {
			a.SubordinateTo = append(a.SubordinateTo, parent)
		}
	}
}

// Unit represents a unit in a model. Subordinate units are only held in
// the Subordinates map of their parent unit.
type Unit struct {
	Key            UnitKey
	Name           string
	MachineID      string
	CharmURL       string
	Life           string
	PublicAddress  string
	PrivateAddress string
	WorkloadStatus StatusInfo
	AgentStatus    StatusInfo

	// Principal is the key of the parent unit, set only for
	// subordinate units.
	Principal *UnitKey

	// Subordinates holds the subordinate units riding on this unit.
	Subordinates map[UnitKey]*Unit
}

// Application returns the name of the application owning the unit.
func (u *Unit) Application() string {
	return u.Key.Application
}

// IsSubordinate reports whether the unit rides on a parent unit.
func (u *Unit) IsSubordinate() bool {
	return u.Principal != nil
}

// Address describes a network address of a machine.
type Address struct {
	Value string
	Type  string
	Scope string
}

// Machine represents a machine in a model.
type Machine struct {
	ID                      string
	InstanceID              string
	Life                    string
	Series                  string
	AgentStatus             StatusInfo
	InstanceStatus          StatusInfo
	Addresses               []Address
	HardwareCharacteristics map[string]interface{}
}

// Endpoint is one side of a relation.
type Endpoint struct {
	ApplicationName string
	Name            string
	Role            string
	Interface       string
	Scope           string
}

// Relation represents a relation between application endpoints.
type Relation struct {
	Key       string
	ID        int
	Endpoints []Endpoint
}

// Charm represents a charm deployed in a model.
type Charm struct {
	URL           string
	Version       string
	Life          string
	DefaultConfig map[string]interface{}
}

// Action represents an action queued on, or run by, a unit.
type Action struct {
	ID         string
	Receiver   string
	Name       string
	Status     string
	Message    string
	Parameters map[string]interface{}
	Results    map[string]interface{}
	Enqueued   time.Time
	Started    time.Time
	Completed  time.Time
}
