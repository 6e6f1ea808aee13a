// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modelstate

import (
	"github.com/juju/errors"
	"github.com/mitchellh/mapstructure"
)

// StatusFields lists the top level fields of a full status response that
// are kept. Everything else, volatile timestamps included, is dropped so
// that refetching an unchanged model does not look like a change.
var StatusFields = []string{
	"annotations",
	"applications",
	"machines",
	"model",
	"offers",
	"relations",
	"remote-applications",
}

// DetailedStatus is the status block used throughout a full status.
type DetailedStatus struct {
	Status  string                 `mapstructure:"status"`
	Info    string                 `mapstructure:"info"`
	Version string                 `mapstructure:"version"`
	Life    string                 `mapstructure:"life"`
	Data    map[string]interface{} `mapstructure:"data"`
}

// UnitStatus is the status of a unit within a full status.
type UnitStatus struct {
	Machine        string                `mapstructure:"machine"`
	PublicAddress  string                `mapstructure:"public-address"`
	Leader         bool                  `mapstructure:"leader"`
	Charm          string                `mapstructure:"charm"`
	WorkloadStatus DetailedStatus        `mapstructure:"workload-status"`
	AgentStatus    DetailedStatus        `mapstructure:"agent-status"`
	Subordinates   map[string]UnitStatus `mapstructure:"subordinates"`
}

// ApplicationStatus is the status of an application within a full status.
type ApplicationStatus struct {
	Charm         string                `mapstructure:"charm"`
	CharmChannel  string                `mapstructure:"charm-channel"`
	Exposed       bool                  `mapstructure:"exposed"`
	Life          string                `mapstructure:"life"`
	SubordinateTo []string              `mapstructure:"subordinate-to"`
	Status        DetailedStatus        `mapstructure:"status"`
	Units         map[string]UnitStatus `mapstructure:"units"`
}

// MachineStatus is the status of a machine within a full status.
type MachineStatus struct {
	InstanceID     string         `mapstructure:"instance-id"`
	DNSName        string         `mapstructure:"dns-name"`
	Hostname       string         `mapstructure:"hostname"`
	Series         string         `mapstructure:"series"`
	Hardware       string         `mapstructure:"hardware"`
	AgentStatus    DetailedStatus `mapstructure:"agent-status"`
	InstanceStatus DetailedStatus `mapstructure:"instance-status"`
}

// ModelStatusInfo is the "model" block of a full status.
type ModelStatusInfo struct {
	Name        string         `mapstructure:"name"`
	Type        string         `mapstructure:"type"`
	CloudTag    string         `mapstructure:"cloud-tag"`
	CloudRegion string         `mapstructure:"region"`
	Version     string         `mapstructure:"version"`
	ModelStatus DetailedStatus `mapstructure:"model-status"`
}

// ModelStatus holds the allow-listed fields of a full status response.
type ModelStatus struct {
	Annotations        map[string]map[string]string `mapstructure:"annotations"`
	Applications       map[string]ApplicationStatus `mapstructure:"applications"`
	Machines           map[string]MachineStatus     `mapstructure:"machines"`
	Model              ModelStatusInfo              `mapstructure:"model"`
	Offers             map[string]interface{}       `mapstructure:"offers"`
	Relations          []interface{}                `mapstructure:"relations"`
	RemoteApplications map[string]interface{}       `mapstructure:"remote-applications"`
}

// NewModelStatus builds a ModelStatus from a raw, decoded full status
// response, keeping only the fields in StatusFields.
func NewModelStatus(raw map[string]interface{}) (ModelStatus, error) {
	filtered := make(map[string]interface{}, len(StatusFields))
	for _, field := range StatusFields {
		if value, ok := raw[field]; ok && value != nil {
			filtered[field] = value
		}
	}

	var status ModelStatus
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &status,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return ModelStatus{}, errors.Trace(err)
	}
	if err := decoder.Decode(filtered); err != nil {
		return ModelStatus{}, errors.Annotate(err, "decoding model status")
	}
	return status, nil
}

// ModelDetails holds the result of a model information request.
type ModelDetails struct {
	UUID           string
	Name           string
	Type           string
	ControllerUUID string
	IsController   bool
	Cloud          string
	CloudRegion    string
	Owner          string
	Life           string
	AgentVersion   string
	Status         string
}

// ControllerInfo holds controller level bookkeeping derived from the
// controller's own hosting model.
type ControllerInfo struct {
	Cloud  string
	Region string
}
