// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"time"

	"github.com/juju/clock"
	"gopkg.in/tomb.v2"

	"github.com/juju/juju-dashboard/api/base"
)

type pingerConfig struct {
	caller    base.APICaller
	clock     clock.Clock
	interval  time.Duration
	connID    string
	onFailure func()
}

// pinger keeps a connection alive by pinging it on an interval. The
// first failed ping stops it; reconnecting is left to the owner of the
// connection.
type pinger struct {
	tomb   tomb.Tomb
	config pingerConfig
}

func newPinger(config pingerConfig) *pinger {
	p := &pinger{config: config}
	p.tomb.Go(p.loop)
	return p
}

// Kill is part of the worker.Worker interface.
func (p *pinger) Kill() {
	p.tomb.Kill(nil)
}

// Wait is part of the worker.Worker interface.
func (p *pinger) Wait() error {
	return p.tomb.Wait()
}

func (p *pinger) loop() error {
	for {
		select {
		case <-p.tomb.Dying():
			return tomb.ErrDying
		case <-p.config.clock.After(p.config.interval):
		}
		ctx := p.tomb.Context(nil)
		err := p.config.caller.APICall(ctx, "Pinger", BestFacadeVersion("Pinger"), "", "Ping", nil, nil)
		if err == nil {
			continue
		}
		select {
		case <-p.tomb.Dying():
			return tomb.ErrDying
		default:
		}
		logger.Infof("ping error on connection %s, stopping pinger: %v", p.config.connID, err)
		if p.config.onFailure != nil {
			p.config.onFailure()
		}
		return nil
	}
}
