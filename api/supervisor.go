// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package api manages authenticated connections to a controller or to
// one of its models.
package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/names/v5"

	"github.com/juju/juju-dashboard/rpc/params"
)

var logger = loggo.GetLogger("dashboard.api")

const (
	// ErrLoginTimeout is returned when the controller does not answer a
	// login request in time. It is distinct from a rejected login.
	ErrLoginTimeout = errors.ConstError("login timed out")

	// ErrNotAuthenticated is returned by calls made on a connection
	// that is not logged in.
	ErrNotAuthenticated = errors.ConstError("connection not authenticated")

	// ErrInvalidState is returned when Connect is called on a
	// supervisor that has already been used.
	ErrInvalidState = errors.ConstError("invalid connection state")

	// ErrClosed is returned by Connect when the supervisor is closed
	// while connecting.
	ErrClosed = errors.ConstError("connection closed while connecting")
)

const (
	// DefaultLoginTimeout is how long a login may take before the
	// connection is abandoned.
	DefaultLoginTimeout = 5 * time.Second

	// DefaultPingInterval is how often a kept-alive connection pings
	// the controller.
	DefaultPingInterval = 20 * time.Second
)

// Credentials holds what is needed to log in. When IdentityProvider is
// set, User and Password are ignored and the login carries no
// credentials, leaving authentication to the controller's identity
// provider.
type Credentials struct {
	User             string
	Password         string
	IdentityProvider bool
}

// Info holds the details of the endpoint to connect to.
type Info struct {
	// Endpoint is the websocket URL of the controller or model API.
	Endpoint string

	// Credentials are used to log in once connected.
	Credentials Credentials
}

// Validate returns an error if the info cannot be used to connect.
func (info Info) Validate() error {
	if info.Endpoint == "" {
		return errors.NotValidf("empty endpoint")
	}
	creds := info.Credentials
	if creds.IdentityProvider {
		return nil
	}
	if !names.IsValidUser(creds.User) {
		return errors.NotValidf("user name %q", creds.User)
	}
	return nil
}

// DialOpts holds the options that control a connection's timing.
type DialOpts struct {
	// LoginTimeout bounds the login call.
	LoginTimeout time.Duration

	// PingInterval is the delay between keep-alive pings.
	PingInterval time.Duration

	// KeepAlive starts a pinger once logged in. One-shot connections
	// leave it unset.
	KeepAlive bool

	// Clock drives the login timeout and the pinger.
	Clock clock.Clock

	// Dialer opens the transport. It defaults to a WebsocketDialer.
	Dialer Dialer

	// Metrics records state transitions. It may be nil.
	Metrics *Metrics

	// ClientVersion is reported to the controller on login.
	ClientVersion string
}

// DefaultDialOpts returns DialOpts with the default timings, a wall
// clock and keep-alive enabled.
func DefaultDialOpts() DialOpts {
	return DialOpts{
		LoginTimeout: DefaultLoginTimeout,
		PingInterval: DefaultPingInterval,
		KeepAlive:    true,
		Clock:        clock.WallClock,
		Dialer:       WebsocketDialer{},
	}
}

// Supervisor owns the lifecycle of one logical connection: dialling,
// logging in against a timeout, keeping the connection alive, and
// tearing it down. A Supervisor connects at most once; callers that
// want to reconnect create a new one.
type Supervisor struct {
	id   string
	info Info
	opts DialOpts

	mu        sync.Mutex
	state     State
	transport Transport
	login     params.LoginResult
	pinger    *pinger
	broken    chan struct{}
	closeOnce sync.Once
}

// NewSupervisor returns an idle Supervisor for the given endpoint.
func NewSupervisor(info Info, opts DialOpts) (*Supervisor, error) {
	if err := info.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if opts.LoginTimeout <= 0 {
		opts.LoginTimeout = DefaultLoginTimeout
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = DefaultPingInterval
	}
	if opts.Clock == nil {
		opts.Clock = clock.WallClock
	}
	if opts.Dialer == nil {
		opts.Dialer = WebsocketDialer{}
	}
	s := &Supervisor{
		id:     uuid.NewString(),
		info:   info,
		opts:   opts,
		state:  Idle,
		broken: make(chan struct{}),
	}
	opts.Metrics.transition(s.id, Idle)
	return s, nil
}

// ID returns an identifier for the connection, used to correlate log
// messages.
func (s *Supervisor) ID() string {
	return s.id
}

// State returns the current state of the connection.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Authenticated reports whether the connection is logged in.
func (s *Supervisor) Authenticated() bool {
	return s.State() == Authenticated
}

// LoginResult returns what the controller reported on login.
func (s *Supervisor) LoginResult() params.LoginResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.login
}

// Broken returns a channel that is closed when the connection is known
// to be unusable: the pinger has failed or the supervisor was closed.
func (s *Supervisor) Broken() <-chan struct{} {
	return s.broken
}

func (s *Supervisor) setStateLocked(state State) {
	logger.Debugf("connection %s to %s: %s -> %s", s.id, s.info.Endpoint, s.state, state)
	s.state = state
	s.opts.Metrics.transition(s.id, state)
}

func (s *Supervisor) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStateLocked(state)
}

// Connect dials the endpoint and logs in. Dialling and the login
// together race a timer of LoginTimeout: if the timer wins the
// supervisor moves to TimedOut and ErrLoginTimeout is returned; if the
// controller rejects the login the supervisor moves to AuthFailed and
// the controller's error is returned. Connect may only be called on an
// idle supervisor.
func (s *Supervisor) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Idle {
		state := s.state
		s.mu.Unlock()
		return errors.Annotatef(ErrInvalidState, "connecting from %s", state)
	}
	s.setStateLocked(Connecting)
	s.mu.Unlock()

	connectCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The timer is started before dialling so that an endpoint that
	// never answers is bounded as well as a login that never returns.
	timer := s.opts.Clock.NewTimer(s.opts.LoginTimeout)
	defer timer.Stop()

	transport, err := s.raceDial(connectCtx, timer.Chan())
	if err != nil {
		return errors.Trace(err)
	}

	s.mu.Lock()
	if s.state != Connecting {
		// Closed while dialling.
		s.mu.Unlock()
		_ = transport.Close()
		return errors.Trace(ErrClosed)
	}
	s.transport = transport
	s.setStateLocked(Authenticating)
	s.mu.Unlock()

	result, err := s.raceLogin(connectCtx, transport, timer.Chan())
	if err != nil {
		return errors.Trace(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Authenticating {
		// Closed while logging in.
		return errors.Trace(ErrClosed)
	}
	s.login = result
	s.setStateLocked(Authenticated)
	if s.opts.KeepAlive {
		s.pinger = newPinger(pingerConfig{
			caller:   transport,
			clock:    s.opts.Clock,
			interval: s.opts.PingInterval,
			connID:   s.id,
			onFailure: func() {
				s.markBroken()
			},
		})
	}
	return nil
}

type dialOutcome struct {
	transport Transport
	err       error
}

func (s *Supervisor) raceDial(ctx context.Context, timeout <-chan time.Time) (Transport, error) {
	done := make(chan dialOutcome, 1)
	go func() {
		var out dialOutcome
		out.transport, out.err = s.opts.Dialer.Dial(ctx, s.info.Endpoint)
		done <- out
	}()

	// abandon drops a transport the dialer hands back after Connect
	// has given up on it. The caller cancels ctx on return.
	abandon := func() {
		go func() {
			if out := <-done; out.transport != nil {
				_ = out.transport.Close()
			}
		}()
	}

	select {
	case out := <-done:
		if out.err != nil {
			if !s.fail(Closed) {
				return nil, ErrClosed
			}
			return nil, errors.Annotatef(out.err, "connecting to %s", s.info.Endpoint)
		}
		return out.transport, nil
	case <-timeout:
		abandon()
		if !s.fail(TimedOut) {
			return nil, ErrClosed
		}
		logger.Infof("connecting to %s timed out after %v", s.info.Endpoint, s.opts.LoginTimeout)
		return nil, ErrLoginTimeout
	case <-ctx.Done():
		abandon()
		if !s.fail(Closed) {
			return nil, ErrClosed
		}
		return nil, errors.Trace(ctx.Err())
	}
}

type loginOutcome struct {
	result params.LoginResult
	err    error
}

func (s *Supervisor) raceLogin(ctx context.Context, transport Transport, timeout <-chan time.Time) (params.LoginResult, error) {
	done := make(chan loginOutcome, 1)
	go func() {
		var out loginOutcome
		out.err = transport.APICall(ctx, "Admin", BestFacadeVersion("Admin"), "", "Login", s.loginRequest(), &out.result)
		done <- out
	}()

	select {
	case out := <-done:
		if out.err != nil {
			if !s.fail(AuthFailed) {
				// Close won the race; the call failed because the
				// transport went away under it.
				return params.LoginResult{}, ErrClosed
			}
			logger.Infof("login to %s rejected: %v", s.info.Endpoint, out.err)
			return params.LoginResult{}, out.err
		}
		return out.result, nil
	case <-timeout:
		if !s.fail(TimedOut) {
			return params.LoginResult{}, ErrClosed
		}
		logger.Infof("login to %s timed out after %v", s.info.Endpoint, s.opts.LoginTimeout)
		return params.LoginResult{}, ErrLoginTimeout
	case <-ctx.Done():
		if !s.fail(Closed) {
			return params.LoginResult{}, ErrClosed
		}
		return params.LoginResult{}, errors.Trace(ctx.Err())
	}
}

func (s *Supervisor) loginRequest() params.LoginRequest {
	creds := s.info.Credentials
	if creds.IdentityProvider {
		return params.LoginRequest{}
	}
	return params.LoginRequest{
		AuthTag:       names.NewUserTag(creds.User).String(),
		Credentials:   creds.Password,
		ClientVersion: s.opts.ClientVersion,
	}
}

// fail moves a connecting or authenticating supervisor to the given
// terminal state and drops its transport. It reports false if the
// supervisor had already left those states, which only Close does.
func (s *Supervisor) fail(state State) bool {
	s.mu.Lock()
	if s.state != Connecting && s.state != Authenticating {
		s.mu.Unlock()
		return false
	}
	s.setStateLocked(state)
	transport := s.transport
	s.transport = nil
	s.mu.Unlock()
	if transport != nil {
		if err := transport.Close(); err != nil {
			logger.Debugf("closing transport after failed login: %v", err)
		}
	}
	return true
}

func (s *Supervisor) markBroken() {
	s.closeOnce.Do(func() {
		close(s.broken)
	})
}

// APICall makes a call over the authenticated connection. It is an
// error to call it before Connect has succeeded.
func (s *Supervisor) APICall(ctx context.Context, objType string, version int, id, request string, args, response interface{}) error {
	s.mu.Lock()
	if s.state != Authenticated || s.transport == nil {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	transport := s.transport
	s.mu.Unlock()
	return transport.APICall(ctx, objType, version, id, request, args, response)
}

// Close stops the pinger and closes the transport. It may be called any
// number of times, in any state.
func (s *Supervisor) Close() error {
	s.mu.Lock()
	if s.state == Closed {
		s.mu.Unlock()
		return nil
	}
	s.setStateLocked(Closed)
	transport, p := s.transport, s.pinger
	s.transport, s.pinger = nil, nil
	s.mu.Unlock()

	s.markBroken()
	if p != nil {
		p.Kill()
		if err := p.Wait(); err != nil {
			logger.Debugf("pinger for %s: %v", s.id, err)
		}
	}
	if transport != nil {
		return errors.Trace(transport.Close())
	}
	return nil
}
