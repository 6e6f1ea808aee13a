// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package status is the client side of the Client.FullStatus call.
package status

import (
	"context"

	"github.com/juju/errors"

	"github.com/juju/juju-dashboard/api"
	"github.com/juju/juju-dashboard/api/base"
	"github.com/juju/juju-dashboard/core/modelstate"
	"github.com/juju/juju-dashboard/rpc/params"
)

const clientFacade = "Client"

// Client provides access to the status of a model. The caller must be
// connected to the model, not to the controller.
type Client struct {
	facade base.FacadeCaller
}

// NewClient creates a new status client.
func NewClient(caller base.APICaller) *Client {
	if caller == nil {
		panic("caller is nil")
	}
	return &Client{
		facade: base.NewFacadeCallerForVersion(caller, clientFacade, api.BestFacadeVersion(clientFacade)),
	}
}

// FullStatus fetches the status of the model, restricted to entities
// matching the patterns if any are given. Only the allow-listed top
// level fields are returned.
func (c *Client) FullStatus(ctx context.Context, patterns ...string) (modelstate.ModelStatus, error) {
	args := params.StatusParams{Patterns: patterns}
	if args.Patterns == nil {
		args.Patterns = []string{}
	}
	var raw params.FullStatus
	if err := c.facade.FacadeCall(ctx, "FullStatus", args, &raw); err != nil {
		return modelstate.ModelStatus{}, errors.Trace(params.TranslateWellKnownError(err))
	}
	status, err := modelstate.NewModelStatus(raw)
	if err != nil {
		return modelstate.ModelStatus{}, errors.Trace(err)
	}
	return status, nil
}
