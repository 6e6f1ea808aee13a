// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rpc

import (
	"context"
	"encoding/json"

	"github.com/juju/errors"
)

// ErrShutdown is returned when a request is made on a connection that is
// shutting down.
const ErrShutdown = errors.ConstError("connection is shut down")

// IsShutdownErr returns true if the error is ErrShutdown.
func IsShutdownErr(err error) bool {
	return errors.Is(err, ErrShutdown)
}

// Request identifies the remote method to call.
type Request struct {
	// Type holds the facade name.
	Type string

	// Version holds the facade version.
	Version int

	// Id holds the id of the object to act on, if any.
	Id string

	// Action holds the name of the method.
	Action string
}

// RequestError represents an error returned from an RPC request.
type RequestError struct {
	Message string
	Code    string
	Info    map[string]interface{}
}

func (e *RequestError) Error() string {
	if e.Code != "" {
		return e.Message + " (" + e.Code + ")"
	}
	return e.Message
}

// ErrorCode returns the error code associated with the error.
func (e *RequestError) ErrorCode() string {
	return e.Code
}

// call represents an active RPC.
type call struct {
	response interface{}
	done     chan error
}

func (c *call) finish(err error) {
	select {
	case c.done <- err:
	default:
		logger.Errorf("discarding call reply due to insufficient done chan capacity")
	}
}

// Call invokes the named action on the object of the given type with
// the given id. The result is decoded into response, which should be a
// pointer or nil. If the action fails remotely, the error will have a
// cause of type *RequestError.
func (conn *Conn) Call(ctx context.Context, req Request, params, response interface{}) error {
	if err := ctx.Err(); err != nil {
		return errors.Trace(err)
	}
	c := &call{
		response: response,
		done:     make(chan error, 1),
	}
	reqID, err := conn.send(req, params, c)
	if err != nil {
		return errors.Trace(err)
	}
	select {
	case <-ctx.Done():
		conn.cancel(reqID)
		return errors.Trace(ctx.Err())
	case err := <-c.done:
		return err
	}
}

// APICall makes a call with the given facade details. It lets a Conn
// be used wherever a base.APICaller is expected.
func (conn *Conn) APICall(ctx context.Context, facade string, version int, id, request string, params, response interface{}) error {
	return conn.Call(ctx, Request{
		Type:    facade,
		Version: version,
		Id:      id,
		Action:  request,
	}, params, response)
}

func (conn *Conn) send(req Request, params interface{}, c *call) (uint64, error) {
	conn.sending.Lock()
	defer conn.sending.Unlock()

	conn.mutex.Lock()
	if conn.closing || conn.shutdown {
		conn.mutex.Unlock()
		return 0, ErrShutdown
	}
	conn.reqId++
	reqId := conn.reqId
	conn.clientPending[reqId] = c
	conn.mutex.Unlock()

	if params == nil {
		params = struct{}{}
	}
	body, err := json.Marshal(params)
	if err != nil {
		conn.cancel(reqId)
		return 0, errors.Annotatef(err, "encoding %s.%s params", req.Type, req.Action)
	}
	msg := outMsg{
		RequestId: reqId,
		Type:      req.Type,
		Version:   req.Version,
		Id:        req.Id,
		Request:   req.Action,
		Params:    body,
	}
	if err := conn.codec.WriteJSON(msg); err != nil {
		conn.cancel(reqId)
		return 0, errors.Annotatef(err, "sending %s.%s", req.Type, req.Action)
	}
	return reqId, nil
}

func (conn *Conn) cancel(reqId uint64) {
	conn.mutex.Lock()
	delete(conn.clientPending, reqId)
	conn.mutex.Unlock()
}

func (conn *Conn) handleResponse(msg *inMsg) {
	conn.mutex.Lock()
	c := conn.clientPending[msg.RequestId]
	delete(conn.clientPending, msg.RequestId)
	conn.mutex.Unlock()

	switch {
	case c == nil:
		// The caller gave up waiting; nobody wants the reply.
		logger.Tracef("dropping response to abandoned request %d", msg.RequestId)
	case msg.Error != "":
		c.finish(&RequestError{
			Message: msg.Error,
			Code:    msg.ErrorCode,
			Info:    msg.ErrorInfo,
		})
	case c.response == nil || len(msg.Response) == 0:
		c.finish(nil)
	default:
		if err := json.Unmarshal(msg.Response, c.response); err != nil {
			c.finish(errors.Annotate(err, "decoding response"))
			return
		}
		c.finish(nil)
	}
}
