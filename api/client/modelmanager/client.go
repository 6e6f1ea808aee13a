// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package modelmanager is the client side of the ModelManager facade.
package modelmanager

import (
	"context"

	"github.com/juju/errors"
	"github.com/juju/names/v5"

	"github.com/juju/juju-dashboard/api"
	"github.com/juju/juju-dashboard/api/base"
	"github.com/juju/juju-dashboard/core/modelstate"
	"github.com/juju/juju-dashboard/rpc/params"
)

const modelManagerFacade = "ModelManager"

// Client provides access to model metadata through the controller.
type Client struct {
	facade base.FacadeCaller
}

// NewClient creates a new ModelManager client.
func NewClient(caller base.APICaller) *Client {
	if caller == nil {
		panic("caller is nil")
	}
	return &Client{
		facade: base.NewFacadeCallerForVersion(caller, modelManagerFacade, api.BestFacadeVersion(modelManagerFacade)),
	}
}

// ModelInfo returns the metadata of the model with the given UUID.
func (c *Client) ModelInfo(ctx context.Context, modelUUID string) (modelstate.ModelDetails, error) {
	if !names.IsValidModel(modelUUID) {
		return modelstate.ModelDetails{}, errors.NotValidf("model UUID %q", modelUUID)
	}
	args := params.Entities{
		Entities: []params.Entity{{Tag: names.NewModelTag(modelUUID).String()}},
	}
	var results params.ModelInfoResults
	if err := c.facade.FacadeCall(ctx, "ModelInfo", args, &results); err != nil {
		return modelstate.ModelDetails{}, errors.Trace(params.TranslateWellKnownError(err))
	}
	if n := len(results.Results); n != 1 {
		return modelstate.ModelDetails{}, errors.Errorf("expected 1 result, got %d", n)
	}
	result := results.Results[0]
	if result.Error != nil {
		return modelstate.ModelDetails{}, errors.Trace(params.TranslateWellKnownError(result.Error))
	}
	if result.Result == nil {
		return modelstate.ModelDetails{}, errors.NotFoundf("model %q", modelUUID)
	}
	return convertModelInfo(*result.Result), nil
}

func convertModelInfo(info params.ModelInfo) modelstate.ModelDetails {
	details := modelstate.ModelDetails{
		UUID:           info.UUID,
		Name:           info.Name,
		Type:           info.Type,
		ControllerUUID: info.ControllerUUID,
		IsController:   info.IsController,
		CloudRegion:    info.CloudRegion,
		Life:           info.Life,
		AgentVersion:   info.AgentVersion,
		Status:         info.Status.Status,
	}
	details.Cloud = tagID(info.CloudTag)
	details.Owner = tagID(info.OwnerTag)
	return details
}

// tagID returns the id of the tag, or the raw string if it does not
// parse.
func tagID(tag string) string {
	if tag == "" {
		return ""
	}
	parsed, err := names.ParseTag(tag)
	if err != nil {
		return tag
	}
	return parsed.Id()
}
