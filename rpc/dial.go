// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rpc

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/gorilla/websocket"
	"github.com/juju/errors"
)

// DialOpts holds options for opening a websocket.
type DialOpts struct {
	// TLSConfig is used for wss endpoints. A nil value uses the
	// system defaults.
	TLSConfig *tls.Config

	// HandshakeTimeout bounds the websocket handshake.
	HandshakeTimeout time.Duration
}

// Dial opens a websocket to the given URL and returns a connection
// running over it.
func Dial(ctx context.Context, url string, opts DialOpts) (*Conn, error) {
	dialer := websocket.Dialer{
		TLSClientConfig:  opts.TLSConfig,
		HandshakeTimeout: opts.HandshakeTimeout,
		Proxy:            websocket.DefaultDialer.Proxy,
	}
	ws, resp, err := dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, errors.Annotatef(err, "dialing %q", url)
	}
	logger.Debugf("connected to %s", url)
	return NewConn(ws), nil
}
