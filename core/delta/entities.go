// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package delta

import (
	"encoding/json"
	"time"

	"github.com/juju/errors"

	"github.com/juju/juju-dashboard/core/modelstate"
)

// StatusInfo holds the status of an entity.
type StatusInfo struct {
	Current string                 `json:"current"`
	Message string                 `json:"message"`
	Since   *time.Time             `json:"since,omitempty"`
	Version string                 `json:"version"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// ActionInfo holds the payload of an action delta.
type ActionInfo struct {
	ModelUUID  string                 `json:"model-uuid"`
	ID         string                 `json:"id"`
	Receiver   string                 `json:"receiver"`
	Name       string                 `json:"name"`
	Status     string                 `json:"status"`
	Message    string                 `json:"message"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	Results    map[string]interface{} `json:"results,omitempty"`
	Enqueued   time.Time              `json:"enqueued"`
	Started    time.Time              `json:"started"`
	Completed  time.Time              `json:"completed"`
}

// EntityID is part of EntityInfo.
func (i *ActionInfo) EntityID() EntityID {
	return EntityID{Kind: KindAction, ModelUUID: i.ModelUUID, ID: i.ID}
}

// Validate is part of EntityInfo.
func (i *ActionInfo) Validate() error {
	if i.ID == "" {
		return errors.NotValidf("missing id")
	}
	return nil
}

func (*ActionInfo) sealed() {}

// AnnotationInfo holds the payload of an annotation delta.
type AnnotationInfo struct {
	ModelUUID   string            `json:"model-uuid"`
	Tag         string            `json:"tag"`
	Annotations map[string]string `json:"annotations"`
}

// EntityID is part of EntityInfo.
func (i *AnnotationInfo) EntityID() EntityID {
	return EntityID{Kind: KindAnnotation, ModelUUID: i.ModelUUID, ID: i.Tag}
}

// Validate is part of EntityInfo.
func (i *AnnotationInfo) Validate() error {
	if i.Tag == "" {
		return errors.NotValidf("missing tag")
	}
	return nil
}

func (*AnnotationInfo) sealed() {}

// ApplicationInfo holds the payload of an application delta.
type ApplicationInfo struct {
	ModelUUID       string                 `json:"model-uuid"`
	Name            string                 `json:"name"`
	Exposed         bool                   `json:"exposed"`
	CharmURL        string                 `json:"charm-url"`
	Life            string                 `json:"life"`
	MinUnits        int                    `json:"min-units"`
	Config          map[string]interface{} `json:"config,omitempty"`
	Subordinate     bool                   `json:"subordinate"`
	SubordinateTo   []string               `json:"subordinate-to,omitempty"`
	Status          StatusInfo             `json:"status"`
	WorkloadVersion string                 `json:"workload-version"`

	// UnitCount is carried by some feeds but is never trusted; the
	// count is derived from unit deltas.
	UnitCount int `json:"unit-count,omitempty"`
}

// EntityID is part of EntityInfo.
func (i *ApplicationInfo) EntityID() EntityID {
	return EntityID{Kind: KindApplication, ModelUUID: i.ModelUUID, ID: i.Name}
}

// Validate is part of EntityInfo.
func (i *ApplicationInfo) Validate() error {
	if i.Name == "" {
		return errors.NotValidf("missing name")
	}
	return nil
}

func (*ApplicationInfo) sealed() {}

// CharmInfo holds the payload of a charm delta.
type CharmInfo struct {
	ModelUUID     string                 `json:"model-uuid"`
	CharmURL      string                 `json:"charm-url"`
	CharmVersion  string                 `json:"charm-version"`
	Life          string                 `json:"life"`
	DefaultConfig map[string]interface{} `json:"config,omitempty"`
}

// EntityID is part of EntityInfo.
func (i *CharmInfo) EntityID() EntityID {
	return EntityID{Kind: KindCharm, ModelUUID: i.ModelUUID, ID: i.CharmURL}
}

// Validate is part of EntityInfo.
func (i *CharmInfo) Validate() error {
	if i.CharmURL == "" {
		return errors.NotValidf("missing charm-url")
	}
	return nil
}

func (*CharmInfo) sealed() {}

// Address describes a network address.
type Address struct {
	Value string `json:"value"`
	Type  string `json:"type"`
	Scope string `json:"scope"`
}

// MachineInfo holds the payload of a machine delta.
type MachineInfo struct {
	ModelUUID               string                 `json:"model-uuid"`
	ID                      string                 `json:"id"`
	InstanceID              string                 `json:"instance-id"`
	AgentStatus             StatusInfo             `json:"agent-status"`
	InstanceStatus          StatusInfo             `json:"instance-status"`
	Life                    string                 `json:"life"`
	Series                  string                 `json:"series"`
	Addresses               []Address              `json:"addresses"`
	HardwareCharacteristics map[string]interface{} `json:"hardware-characteristics,omitempty"`
}

// EntityID is part of EntityInfo.
func (i *MachineInfo) EntityID() EntityID {
	return EntityID{Kind: KindMachine, ModelUUID: i.ModelUUID, ID: i.ID}
}

// Validate is part of EntityInfo.
func (i *MachineInfo) Validate() error {
	if i.ID == "" {
		return errors.NotValidf("missing id")
	}
	return nil
}

func (*MachineInfo) sealed() {}

// ModelInfo holds the payload of a model delta.
type ModelInfo struct {
	ModelUUID      string                 `json:"model-uuid"`
	Name           string                 `json:"name"`
	Type           string                 `json:"type"`
	Life           string                 `json:"life"`
	Owner          string                 `json:"owner"`
	ControllerUUID string                 `json:"controller-uuid"`
	IsController   bool                   `json:"is-controller"`
	Cloud          string                 `json:"cloud"`
	CloudRegion    string                 `json:"cloud-region"`
	Version        string                 `json:"version"`
	Status         StatusInfo             `json:"status"`
	Config         map[string]interface{} `json:"config,omitempty"`
}

// EntityID is part of EntityInfo.
func (i *ModelInfo) EntityID() EntityID {
	return EntityID{Kind: KindModel, ModelUUID: i.ModelUUID, ID: i.ModelUUID}
}

// Validate is part of EntityInfo. A model delta may omit its UUID when
// it arrives on a single model feed.
func (i *ModelInfo) Validate() error {
	return nil
}

func (*ModelInfo) sealed() {}

// Endpoint is one side of a relation.
type Endpoint struct {
	ApplicationName string        `json:"application-name"`
	Relation        CharmRelation `json:"relation"`
}

// CharmRelation describes the charm side of a relation endpoint.
type CharmRelation struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Interface string `json:"interface"`
	Optional  bool   `json:"optional"`
	Limit     int    `json:"limit"`
	Scope     string `json:"scope"`
}

// RelationInfo holds the payload of a relation delta.
type RelationInfo struct {
	ModelUUID string     `json:"model-uuid"`
	Key       string     `json:"key"`
	ID        int        `json:"id"`
	Endpoints []Endpoint `json:"endpoints"`
}

// EntityID is part of EntityInfo.
func (i *RelationInfo) EntityID() EntityID {
	return EntityID{Kind: KindRelation, ModelUUID: i.ModelUUID, ID: i.Key}
}

// Validate is part of EntityInfo.
func (i *RelationInfo) Validate() error {
	if i.Key == "" {
		return errors.NotValidf("missing key")
	}
	return nil
}

func (*RelationInfo) sealed() {}

// UnitInfo holds the payload of a unit delta. Key and PrincipalKey are
// derived from the wire names when the payload is decoded.
type UnitInfo struct {
	ModelUUID      string     `json:"model-uuid"`
	Name           string     `json:"name"`
	Application    string     `json:"application"`
	Series         string     `json:"series"`
	CharmURL       string     `json:"charm-url"`
	Life           string     `json:"life"`
	PublicAddress  string     `json:"public-address"`
	PrivateAddress string     `json:"private-address"`
	MachineID      string     `json:"machine-id"`
	Principal      string     `json:"principal"`
	Subordinate    bool       `json:"subordinate"`
	WorkloadStatus StatusInfo `json:"workload-status"`
	AgentStatus    StatusInfo `json:"agent-status"`

	Key          modelstate.UnitKey  `json:"-"`
	PrincipalKey *modelstate.UnitKey `json:"-"`
}

// EntityID is part of EntityInfo.
func (i *UnitInfo) EntityID() EntityID {
	return EntityID{Kind: KindUnit, ModelUUID: i.ModelUUID, ID: i.Name}
}

// UnmarshalJSON implements json.Unmarshaler, deriving the structured
// unit keys from the wire names.
func (i *UnitInfo) UnmarshalJSON(data []byte) error {
	type plain UnitInfo
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*i = UnitInfo(p)
	i.Key = modelstate.UnitKey{}
	i.PrincipalKey = nil
	if i.Name == "" {
		return nil
	}
	key, err := modelstate.ParseUnitKey(i.Name)
	if err != nil {
		return errors.Trace(err)
	}
	i.Key = key
	if i.Principal != "" {
		principal, err := modelstate.ParseUnitKey(i.Principal)
		if err != nil {
			return errors.Annotate(err, "principal")
		}
		i.PrincipalKey = &principal
	}
	return nil
}

// Validate is part of EntityInfo.
func (i *UnitInfo) Validate() error {
	if i.Name == "" {
		return errors.NotValidf("missing name")
	}
	return nil
}

func (*UnitInfo) sealed() {}
