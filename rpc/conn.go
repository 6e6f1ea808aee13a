// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package rpc implements the client side of the controller's JSON-RPC
// protocol over a websocket.
package rpc

import (
	"encoding/json"
	"sync"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"gopkg.in/tomb.v2"
)

var logger = loggo.GetLogger("dashboard.rpc")

// Codec is implemented by the websocket the connection runs over.
type Codec interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	Close() error
}

// outMsg is a request as written on the wire.
type outMsg struct {
	RequestId uint64          `json:"request-id"`
	Type      string          `json:"type"`
	Version   int             `json:"version"`
	Id        string          `json:"id,omitempty"`
	Request   string          `json:"request"`
	Params    json.RawMessage `json:"params"`
}

// inMsg is a response as read from the wire.
type inMsg struct {
	RequestId uint64                 `json:"request-id"`
	Error     string                 `json:"error,omitempty"`
	ErrorCode string                 `json:"error-code,omitempty"`
	ErrorInfo map[string]interface{} `json:"error-info,omitempty"`
	Response  json.RawMessage        `json:"response,omitempty"`
}

// Conn represents an RPC endpoint. There may be multiple outstanding
// calls on a single Conn, and a Conn may be used by multiple goroutines
// simultaneously.
type Conn struct {
	tomb tomb.Tomb

	// codec holds the underlying RPC connection.
	codec Codec

	// sending guards the write side of the codec; it ensures that
	// WriteJSON is not called concurrently.
	sending sync.Mutex

	// mutex guards the following values.
	mutex sync.Mutex

	// reqId holds the latest client request id.
	reqId uint64

	// clientPending holds all pending client requests.
	clientPending map[uint64]*call

	// closing is set when the connection is shutting down via Close.
	closing bool

	// shutdown is set when the input loop terminates.
	shutdown bool
}

// NewConn creates a new connection over the given codec and starts
// reading responses from it.
func NewConn(codec Codec) *Conn {
	conn := &Conn{
		codec:         codec,
		clientPending: make(map[uint64]*call),
	}
	conn.tomb.Go(conn.loop)
	return conn
}

// Dead returns a channel that is closed when the connection has
// stopped reading responses.
func (conn *Conn) Dead() <-chan struct{} {
	return conn.tomb.Dead()
}

// Close closes the connection and waits for the input loop to finish.
// Pending calls return ErrShutdown. Calling Close more than once is
// harmless.
func (conn *Conn) Close() error {
	conn.mutex.Lock()
	if conn.closing {
		conn.mutex.Unlock()
		return conn.tomb.Wait()
	}
	conn.closing = true
	conn.mutex.Unlock()

	conn.tomb.Kill(nil)
	if err := conn.codec.Close(); err != nil {
		logger.Debugf("closing codec: %v", err)
	}
	return conn.tomb.Wait()
}

func (conn *Conn) loop() error {
	err := conn.readLoop()

	conn.mutex.Lock()
	conn.shutdown = true
	closing := conn.closing
	pending := conn.clientPending
	conn.clientPending = make(map[uint64]*call)
	conn.mutex.Unlock()

	for _, c := range pending {
		c.finish(ErrShutdown)
	}
	if closing {
		// The read error is the consequence of closing the codec.
		return nil
	}
	return errors.Trace(err)
}

func (conn *Conn) readLoop() error {
	for {
		var msg inMsg
		if err := conn.codec.ReadJSON(&msg); err != nil {
			return errors.Annotate(err, "reading response")
		}
		conn.handleResponse(&msg)
	}
}
