// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api_test

import (
	"context"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"github.com/prometheus/client_golang/prometheus/testutil"
	gc "gopkg.in/check.v1"

	"github.com/juju/juju-dashboard/api"
	"github.com/juju/juju-dashboard/rpc/params"
)

type supervisorSuite struct {
	testing.IsolationSuite

	clock     *testclock.Clock
	transport *fakeTransport
	dialer    *fakeDialer
	metrics   *api.Metrics
}

var _ = gc.Suite(&supervisorSuite{})

func (s *supervisorSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.clock = testclock.NewClock(time.Now())
	s.transport = newFakeTransport()
	s.dialer = &fakeDialer{transport: s.transport}
	s.metrics = api.NewMetrics()
}

func (s *supervisorSuite) info() api.Info {
	return api.Info{
		Endpoint: "wss://10.0.0.1:17070/api",
		Credentials: api.Credentials{
			User:     "admin",
			Password: "secret",
		},
	}
}

func (s *supervisorSuite) opts(keepAlive bool) api.DialOpts {
	return api.DialOpts{
		LoginTimeout: api.DefaultLoginTimeout,
		PingInterval: api.DefaultPingInterval,
		KeepAlive:    keepAlive,
		Clock:        s.clock,
		Dialer:       s.dialer,
		Metrics:      s.metrics,
	}
}

func (s *supervisorSuite) newSupervisor(c *gc.C, info api.Info, keepAlive bool) *api.Supervisor {
	sup, err := api.NewSupervisor(info, s.opts(keepAlive))
	c.Assert(err, jc.ErrorIsNil)
	s.AddCleanup(func(*gc.C) { _ = sup.Close() })
	c.Check(sup.State(), gc.Equals, api.Idle)
	return sup
}

func (s *supervisorSuite) TestNewSupervisorValidates(c *gc.C) {
	_, err := api.NewSupervisor(api.Info{}, s.opts(false))
	c.Check(err, jc.ErrorIs, errors.NotValid)

	info := s.info()
	info.Credentials.User = "not a user!"
	_, err = api.NewSupervisor(info, s.opts(false))
	c.Check(err, gc.ErrorMatches, `user name "not a user!" not valid`)

	// The identity provider needs no user.
	info.Credentials = api.Credentials{IdentityProvider: true}
	_, err = api.NewSupervisor(info, s.opts(false))
	c.Check(err, jc.ErrorIsNil)
}

func (s *supervisorSuite) TestConnectAuthenticates(c *gc.C) {
	sup := s.newSupervisor(c, s.info(), false)

	err := sup.Connect(context.Background())
	c.Assert(err, jc.ErrorIsNil)
	c.Check(sup.State(), gc.Equals, api.Authenticated)
	c.Check(sup.Authenticated(), jc.IsTrue)
	c.Check(sup.LoginResult().ServerVersion, gc.Equals, "3.6.0")
	c.Check(s.dialer.endpoints, jc.DeepEquals, []string{"wss://10.0.0.1:17070/api"})
	c.Check(s.transport.loginRequests(), jc.DeepEquals, []params.LoginRequest{{
		AuthTag:     "user-admin",
		Credentials: "secret",
	}})

	var out string
	err = sup.APICall(context.Background(), "Client", 6, "", "Echo", nil, &out)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(out, gc.Equals, "echo")
}

func (s *supervisorSuite) TestIdentityProviderSendsEmptyLogin(c *gc.C) {
	info := s.info()
	info.Credentials = api.Credentials{IdentityProvider: true}
	sup := s.newSupervisor(c, info, false)

	c.Assert(sup.Connect(context.Background()), jc.ErrorIsNil)
	c.Check(s.transport.loginRequests(), jc.DeepEquals, []params.LoginRequest{{}})
}

func (s *supervisorSuite) connectAsync(sup *api.Supervisor) <-chan error {
	result := make(chan error, 1)
	go func() {
		result <- sup.Connect(context.Background())
	}()
	return result
}

func (s *supervisorSuite) waitConnect(c *gc.C, result <-chan error) error {
	select {
	case err := <-result:
		return err
	case <-time.After(testing.LongWait):
		c.Fatalf("timed out waiting for Connect")
	}
	return nil
}

func (s *supervisorSuite) TestLoginTimeout(c *gc.C) {
	s.transport.blockLogin = true
	sup := s.newSupervisor(c, s.info(), true)

	result := s.connectAsync(sup)
	c.Assert(s.clock.WaitAdvance(api.DefaultLoginTimeout-time.Nanosecond, testing.LongWait, 1), jc.ErrorIsNil)
	select {
	case err := <-result:
		c.Fatalf("Connect returned before the timeout: %v", err)
	case <-time.After(testing.ShortWait):
	}
	c.Check(sup.State(), gc.Equals, api.Authenticating)

	s.clock.Advance(time.Nanosecond)
	err := s.waitConnect(c, result)
	c.Check(err, jc.ErrorIs, api.ErrLoginTimeout)
	c.Check(err, gc.ErrorMatches, "login timed out")
	c.Check(sup.State(), gc.Equals, api.TimedOut)
	c.Check(sup.Authenticated(), jc.IsFalse)
	c.Check(s.transport.closeCount(), gc.Equals, 1)
}

func (s *supervisorSuite) TestDialTimeout(c *gc.C) {
	s.dialer.block = true
	sup := s.newSupervisor(c, s.info(), true)

	result := s.connectAsync(sup)
	c.Assert(s.clock.WaitAdvance(api.DefaultLoginTimeout, testing.LongWait, 1), jc.ErrorIsNil)

	err := s.waitConnect(c, result)
	c.Check(err, jc.ErrorIs, api.ErrLoginTimeout)
	c.Check(sup.State(), gc.Equals, api.TimedOut)
	c.Check(s.transport.loginRequests(), gc.HasLen, 0)
}

func (s *supervisorSuite) TestTimeoutCoversDialAndLogin(c *gc.C) {
	// One timer bounds the whole connection attempt, so the login gets
	// whatever the dial left of it.
	s.transport.blockLogin = true
	s.transport.loginStarted = make(chan struct{}, 1)
	sup := s.newSupervisor(c, s.info(), false)

	result := s.connectAsync(sup)
	select {
	case <-s.transport.loginStarted:
	case <-time.After(testing.LongWait):
		c.Fatalf("login not attempted")
	}
	c.Assert(s.clock.WaitAdvance(api.DefaultLoginTimeout, testing.LongWait, 1), jc.ErrorIsNil)
	c.Check(s.waitConnect(c, result), jc.ErrorIs, api.ErrLoginTimeout)
}

func (s *supervisorSuite) TestCloseDuringLogin(c *gc.C) {
	s.transport.loginErr = errors.New("connection is shut down")
	s.transport.loginStarted = make(chan struct{}, 1)
	s.transport.loginRelease = make(chan struct{})
	sup := s.newSupervisor(c, s.info(), false)

	result := s.connectAsync(sup)
	select {
	case <-s.transport.loginStarted:
	case <-time.After(testing.LongWait):
		c.Fatalf("login not attempted")
	}
	// The login is held until Close has run; it then fails the way a
	// closed transport fails.
	c.Assert(sup.Close(), jc.ErrorIsNil)
	close(s.transport.loginRelease)

	err := s.waitConnect(c, result)
	c.Check(err, jc.ErrorIs, api.ErrClosed)
	c.Check(sup.State(), gc.Equals, api.Closed)
}

func (s *supervisorSuite) TestLoginRejected(c *gc.C) {
	s.transport.loginErr = &params.Error{
		Message: "invalid entity name or password",
		Code:    params.CodeUnauthorized,
	}
	sup := s.newSupervisor(c, s.info(), true)

	err := sup.Connect(context.Background())
	c.Assert(err, gc.ErrorMatches, "invalid entity name or password")
	c.Check(errors.Is(err, api.ErrLoginTimeout), jc.IsFalse)
	c.Check(params.ErrCode(err), gc.Equals, params.CodeUnauthorized)
	c.Check(sup.State(), gc.Equals, api.AuthFailed)
	c.Check(s.transport.closeCount(), gc.Equals, 1)

	// A failed supervisor cannot be reused.
	err = sup.Connect(context.Background())
	c.Check(err, jc.ErrorIs, api.ErrInvalidState)
}

func (s *supervisorSuite) TestConnectOnlyFromIdle(c *gc.C) {
	sup := s.newSupervisor(c, s.info(), false)
	c.Assert(sup.Connect(context.Background()), jc.ErrorIsNil)

	err := sup.Connect(context.Background())
	c.Check(err, gc.ErrorMatches, "connecting from authenticated: invalid connection state")
	c.Check(sup.State(), gc.Equals, api.Authenticated)
}

func (s *supervisorSuite) TestDialFailure(c *gc.C) {
	s.dialer.err = errors.New("connection refused")
	sup := s.newSupervisor(c, s.info(), false)

	err := sup.Connect(context.Background())
	c.Check(err, gc.ErrorMatches, `connecting to wss://10.0.0.1:17070/api: connection refused`)
	c.Check(sup.State(), gc.Equals, api.Closed)
}

func (s *supervisorSuite) TestAPICallRequiresAuthentication(c *gc.C) {
	sup := s.newSupervisor(c, s.info(), false)
	err := sup.APICall(context.Background(), "Client", 6, "", "Echo", nil, nil)
	c.Check(err, jc.ErrorIs, api.ErrNotAuthenticated)

	c.Assert(sup.Connect(context.Background()), jc.ErrorIsNil)
	c.Assert(sup.Close(), jc.ErrorIsNil)
	err = sup.APICall(context.Background(), "Client", 6, "", "Echo", nil, nil)
	c.Check(err, jc.ErrorIs, api.ErrNotAuthenticated)
}

func (s *supervisorSuite) TestCloseIsIdempotent(c *gc.C) {
	sup := s.newSupervisor(c, s.info(), true)

	// Closing a supervisor that never connected is fine.
	c.Assert(sup.Close(), jc.ErrorIsNil)
	c.Assert(sup.Close(), jc.ErrorIsNil)
	c.Check(sup.State(), gc.Equals, api.Closed)
	c.Check(s.transport.closeCount(), gc.Equals, 0)

	s.transport = newFakeTransport()
	s.dialer.transport = s.transport
	sup = s.newSupervisor(c, s.info(), true)
	c.Assert(sup.Connect(context.Background()), jc.ErrorIsNil)
	c.Assert(sup.Close(), jc.ErrorIsNil)
	c.Assert(sup.Close(), jc.ErrorIsNil)
	c.Check(s.transport.closeCount(), gc.Equals, 1)
	select {
	case <-sup.Broken():
	default:
		c.Fatalf("closed supervisor not broken")
	}
}

func (s *supervisorSuite) TestNoPingerWithoutKeepAlive(c *gc.C) {
	sup := s.newSupervisor(c, s.info(), false)
	c.Assert(sup.Connect(context.Background()), jc.ErrorIsNil)

	c.Check(s.clock.WaitAdvance(api.DefaultPingInterval, testing.ShortWait, 1), gc.NotNil)
	select {
	case <-s.transport.pinged:
		c.Fatalf("unexpected ping")
	default:
	}
}

func (s *supervisorSuite) waitPing(c *gc.C) {
	c.Assert(s.clock.WaitAdvance(api.DefaultPingInterval, testing.LongWait, 1), jc.ErrorIsNil)
	select {
	case <-s.transport.pinged:
	case <-time.After(testing.LongWait):
		c.Fatalf("timed out waiting for ping")
	}
}

func (s *supervisorSuite) TestPingerPings(c *gc.C) {
	sup := s.newSupervisor(c, s.info(), true)
	c.Assert(sup.Connect(context.Background()), jc.ErrorIsNil)

	s.waitPing(c)
	s.waitPing(c)

	select {
	case <-sup.Broken():
		c.Fatalf("healthy connection reported broken")
	default:
	}
}

func (s *supervisorSuite) TestPingerStopsOnFailure(c *gc.C) {
	s.transport.pingErr = errors.New("connection is shut down")
	sup := s.newSupervisor(c, s.info(), true)
	c.Assert(sup.Connect(context.Background()), jc.ErrorIsNil)

	s.waitPing(c)
	select {
	case <-sup.Broken():
	case <-time.After(testing.LongWait):
		c.Fatalf("failed ping did not break the connection")
	}

	// The loop has stopped: no further timer is started.
	c.Check(s.clock.WaitAdvance(api.DefaultPingInterval, testing.ShortWait, 1), gc.NotNil)
	select {
	case <-s.transport.pinged:
		c.Fatalf("pinger retried after failure")
	default:
	}

	// Reconnecting is up to the caller; closing still works.
	c.Assert(sup.Close(), jc.ErrorIsNil)
	c.Check(s.transport.closeCount(), gc.Equals, 1)
}

func (s *supervisorSuite) TestMetrics(c *gc.C) {
	sup := s.newSupervisor(c, s.info(), false)
	c.Check(testutil.ToFloat64(s.metrics.Connections(api.Idle)), gc.Equals, float64(1))

	c.Assert(sup.Connect(context.Background()), jc.ErrorIsNil)
	c.Check(testutil.ToFloat64(s.metrics.Connections(api.Idle)), gc.Equals, float64(0))
	c.Check(testutil.ToFloat64(s.metrics.Connections(api.Authenticated)), gc.Equals, float64(1))

	c.Assert(sup.Close(), jc.ErrorIsNil)
	c.Check(testutil.ToFloat64(s.metrics.Connections(api.Authenticated)), gc.Equals, float64(0))
}

func (s *supervisorSuite) TestSupervisorIDsAreUnique(c *gc.C) {
	a := s.newSupervisor(c, s.info(), false)
	b := s.newSupervisor(c, s.info(), false)
	c.Check(a.ID(), gc.Not(gc.Equals), b.ID())
}
