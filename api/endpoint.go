// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"strings"

	"github.com/juju/errors"
	"github.com/juju/names/v5"
)

// ControllerEndpoint returns the API URL of a controller given its base
// websocket URL, e.g. "wss://10.0.0.1:17070".
func ControllerEndpoint(controller string) string {
	return strings.TrimSuffix(controller, "/") + "/api"
}

// ModelEndpoint returns the API URL of the model with the given UUID
// hosted by the controller at the given base websocket URL.
func ModelEndpoint(controller, modelUUID string) (string, error) {
	if !names.IsValidModel(modelUUID) {
		return "", errors.NotValidf("model UUID %q", modelUUID)
	}
	return strings.TrimSuffix(controller, "/") + "/model/" + modelUUID + "/api", nil
}
