// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"context"
	"encoding/json"

	"github.com/juju/errors"

	"github.com/juju/juju-dashboard/api/base"
	"github.com/juju/juju-dashboard/rpc/params"
)

// AllWatcher holds information allowing us to get deltas describing
// changes to the entire model.
type AllWatcher struct {
	objType string
	caller  base.APICaller
	id      string
}

// WatchAll asks the model for a watcher over all of its entities.
// The caller should be connected to the model.
func WatchAll(ctx context.Context, caller base.APICaller) (*AllWatcher, error) {
	var info params.AllWatcherId
	if err := caller.APICall(ctx, "Client", BestFacadeVersion("Client"), "", "WatchAll", nil, &info); err != nil {
		return nil, errors.Trace(err)
	}
	if info.AllWatcherId == "" {
		return nil, errors.New("controller returned an empty watcher id")
	}
	return NewAllWatcher(caller, info.AllWatcherId), nil
}

// NewAllWatcher returns an AllWatcher instance which interacts with a
// watcher created by the WatchAll API call.
func NewAllWatcher(caller base.APICaller, id string) *AllWatcher {
	return &AllWatcher{
		objType: "AllWatcher",
		caller:  caller,
		id:      id,
	}
}

// ID returns the server side id of the watcher.
func (watcher *AllWatcher) ID() string {
	return watcher.id
}

// Next returns a new set of deltas from the watcher, in their wire
// form. It will block until there are deltas to return.
func (watcher *AllWatcher) Next(ctx context.Context) ([]json.RawMessage, error) {
	var info params.AllWatcherNextResults
	err := watcher.caller.APICall(
		ctx,
		watcher.objType,
		BestFacadeVersion(watcher.objType),
		watcher.id,
		"Next",
		nil, &info,
	)
	return info.Deltas, err
}

// Stop shuts down the watcher on the controller.
func (watcher *AllWatcher) Stop(ctx context.Context) error {
	return watcher.caller.APICall(
		ctx,
		watcher.objType,
		BestFacadeVersion(watcher.objType),
		watcher.id,
		"Stop",
		nil, nil,
	)
}
