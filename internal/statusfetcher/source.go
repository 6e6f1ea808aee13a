// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package statusfetcher

import (
	"context"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/juju/juju-dashboard/api"
	"github.com/juju/juju-dashboard/api/client/status"
	"github.com/juju/juju-dashboard/core/modelstate"
)

var logger = loggo.GetLogger("dashboard.statusfetcher")

// ModelConnector is a StatusSource that opens a short-lived connection
// to each model, fetches its status, and closes the connection again.
type ModelConnector struct {
	// ControllerAddress is the base websocket URL of the controller,
	// e.g. "wss://10.0.0.1:17070".
	ControllerAddress string

	// Credentials are used to log in to each model.
	Credentials api.Credentials

	// DialOpts control the connection. KeepAlive is always disabled.
	DialOpts api.DialOpts
}

// ModelStatus is part of StatusSource.
func (m ModelConnector) ModelStatus(ctx context.Context, modelUUID string) (modelstate.ModelStatus, error) {
	endpoint, err := api.ModelEndpoint(m.ControllerAddress, modelUUID)
	if err != nil {
		return modelstate.ModelStatus{}, errors.Trace(err)
	}
	opts := m.DialOpts
	opts.KeepAlive = false
	sup, err := api.NewSupervisor(api.Info{
		Endpoint:    endpoint,
		Credentials: m.Credentials,
	}, opts)
	if err != nil {
		return modelstate.ModelStatus{}, errors.Trace(err)
	}
	defer func() {
		if err := sup.Close(); err != nil {
			logger.Debugf("closing connection to model %q: %v", modelUUID, err)
		}
	}()

	if err := sup.Connect(ctx); err != nil {
		return modelstate.ModelStatus{}, errors.Annotatef(err, "connecting to model %q", modelUUID)
	}
	result, err := status.NewClient(sup).FullStatus(ctx)
	if err != nil {
		return modelstate.ModelStatus{}, errors.Trace(err)
	}
	return result, nil
}
