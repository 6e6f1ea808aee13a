// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/juju/errors"

	"github.com/juju/juju-dashboard/api/base"
	"github.com/juju/juju-dashboard/rpc"
)

// Transport is an open connection that API calls can be made over.
type Transport interface {
	base.APICaller

	// Close closes the connection.
	Close() error
}

// Dialer opens transports to API endpoints.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Transport, error)
}

// WebsocketDialer dials the controller over a websocket.
type WebsocketDialer struct {
	TLSConfig        *tls.Config
	HandshakeTimeout time.Duration
}

// Dial is part of Dialer.
func (d WebsocketDialer) Dial(ctx context.Context, endpoint string) (Transport, error) {
	conn, err := rpc.Dial(ctx, endpoint, rpc.DialOpts{
		TLSConfig:        d.TLSConfig,
		HandshakeTimeout: d.HandshakeTimeout,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return conn, nil
}
