// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api_test

import (
	"context"
	"sync"

	"github.com/juju/errors"

	"github.com/juju/juju-dashboard/api"
	"github.com/juju/juju-dashboard/rpc/params"
)

type fakeTransport struct {
	mu       sync.Mutex
	logins   []params.LoginRequest
	closed   int
	loginErr error
	pingErr  error
	pinged   chan struct{}
	// blockLogin makes Login wait until its context is cancelled.
	blockLogin bool
	// loginStarted is signalled when a login call arrives, if set.
	loginStarted chan struct{}
	// loginRelease, if set, holds a login until it is closed.
	loginRelease chan struct{}
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{pinged: make(chan struct{}, 10)}
}

func (t *fakeTransport) APICall(ctx context.Context, objType string, version int, id, request string, args, response interface{}) error {
	switch objType + "." + request {
	case "Admin.Login":
		t.mu.Lock()
		t.logins = append(t.logins, args.(params.LoginRequest))
		block, err := t.blockLogin, t.loginErr
		started, release := t.loginStarted, t.loginRelease
		t.mu.Unlock()
		if started != nil {
			started <- struct{}{}
		}
		if release != nil {
			<-release
		}
		if block {
			<-ctx.Done()
			return ctx.Err()
		}
		if err != nil {
			return err
		}
		*response.(*params.LoginResult) = params.LoginResult{ServerVersion: "3.6.0"}
		return nil
	case "Pinger.Ping":
		t.mu.Lock()
		err := t.pingErr
		t.mu.Unlock()
		t.pinged <- struct{}{}
		return err
	case "Client.Echo":
		*response.(*string) = "echo"
		return nil
	}
	return errors.NotSupportedf("%s.%s", objType, request)
}

func (t *fakeTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed++
	return nil
}

func (t *fakeTransport) closeCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *fakeTransport) loginRequests() []params.LoginRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]params.LoginRequest(nil), t.logins...)
}

type fakeDialer struct {
	mu        sync.Mutex
	transport *fakeTransport
	err       error
	endpoints []string
	// block makes Dial wait until its context is cancelled.
	block bool
}

func (d *fakeDialer) Dial(ctx context.Context, endpoint string) (api.Transport, error) {
	d.mu.Lock()
	d.endpoints = append(d.endpoints, endpoint)
	block := d.block
	d.mu.Unlock()
	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if d.err != nil {
		return nil, d.err
	}
	return d.transport, nil
}
