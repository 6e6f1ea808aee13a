// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package params holds the structures sent over the controller API.
package params

import (
	"encoding/json"
	"time"
)

// Entity identifies a single entity by tag.
type Entity struct {
	Tag string `json:"tag"`
}

// Entities identifies multiple entities.
type Entities struct {
	Entities []Entity `json:"entities"`
}

// LoginRequest holds the parameters of an Admin.Login call. An empty
// request asks the controller to authenticate through its identity
// provider.
type LoginRequest struct {
	AuthTag       string `json:"auth-tag,omitempty"`
	Credentials   string `json:"credentials,omitempty"`
	ClientVersion string `json:"client-version,omitempty"`
}

// LoginResult holds the result of an Admin.Login call.
type LoginResult struct {
	ControllerTag string        `json:"controller-tag,omitempty"`
	ModelTag      string        `json:"model-tag,omitempty"`
	UserInfo      *AuthUserInfo `json:"user-info,omitempty"`
	ServerVersion string        `json:"server-version,omitempty"`

	// DischargeRequired is set when the identity provider must be
	// visited before the login can complete.
	DischargeRequired       bool   `json:"discharge-required,omitempty"`
	DischargeRequiredReason string `json:"discharge-required-error,omitempty"`
}

// AuthUserInfo describes the authenticated user.
type AuthUserInfo struct {
	DisplayName      string     `json:"display-name"`
	Identity         string     `json:"identity"`
	LastConnection   *time.Time `json:"last-connection,omitempty"`
	ControllerAccess string     `json:"controller-access"`
	ModelAccess      string     `json:"model-access"`
}

// StatusParams holds the parameters of a Client.FullStatus call.
type StatusParams struct {
	Patterns []string `json:"patterns"`
}

// FullStatus holds the raw result of a Client.FullStatus call. It is
// left loosely typed; only an allow-listed subset is ever kept.
type FullStatus map[string]interface{}

// ModelInfo holds the metadata of a model as returned by
// ModelManager.ModelInfo.
type ModelInfo struct {
	Name               string       `json:"name"`
	Type               string       `json:"type"`
	UUID               string       `json:"uuid"`
	ControllerUUID     string       `json:"controller-uuid"`
	IsController       bool         `json:"is-controller"`
	CloudTag           string       `json:"cloud-tag"`
	CloudRegion        string       `json:"cloud-region,omitempty"`
	CloudCredentialTag string       `json:"cloud-credential-tag,omitempty"`
	OwnerTag           string       `json:"owner-tag"`
	Life               string       `json:"life"`
	Status             EntityStatus `json:"status,omitempty"`
	AgentVersion       string       `json:"agent-version,omitempty"`
}

// EntityStatus holds the status of an entity.
type EntityStatus struct {
	Status string                 `json:"status"`
	Info   string                 `json:"info"`
	Data   map[string]interface{} `json:"data,omitempty"`
	Since  *time.Time             `json:"since,omitempty"`
}

// ModelInfoResult holds the result of a ModelInfo call for one model.
type ModelInfoResult struct {
	Result *ModelInfo `json:"result,omitempty"`
	Error  *Error     `json:"error,omitempty"`
}

// ModelInfoResults holds the results of a bulk ModelInfo call.
type ModelInfoResults struct {
	Results []ModelInfoResult `json:"results"`
}

// ErrorResult holds the error status of a single operation.
type ErrorResult struct {
	Error *Error `json:"error,omitempty"`
}

// AllWatcherId holds the id of an AllWatcher.
type AllWatcherId struct {
	AllWatcherId string `json:"watcher-id"`
}

// AllWatcherNextResults holds deltas returned from calling AllWatcher.Next().
// Each delta is left in its wire form to be decoded independently.
type AllWatcherNextResults struct {
	Deltas []json.RawMessage `json:"deltas"`
}
