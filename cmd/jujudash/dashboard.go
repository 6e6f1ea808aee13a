// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/pubsub/v2"
	"github.com/juju/retry"
	"github.com/juju/worker/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/juju/juju-dashboard/api"
	"github.com/juju/juju-dashboard/api/client/modelmanager"
	"github.com/juju/juju-dashboard/core/modelstate"
	"github.com/juju/juju-dashboard/core/reconciler"
	"github.com/juju/juju-dashboard/internal/config"
	"github.com/juju/juju-dashboard/internal/statusfetcher"
	"github.com/juju/juju-dashboard/worker/allwatcher"
	"github.com/juju/juju-dashboard/worker/modelcache"
)

const (
	loginAttempts   = 3
	loginRetryDelay = 2 * time.Second
)

// dashboard ties the controller connections, the status fetchers and
// the delta feeds to a single model cache.
type dashboard struct {
	cfg    config.Config
	clock  clock.Clock
	dialer api.Dialer

	hub      *pubsub.SimpleHub
	cache    *modelcache.Worker
	registry *prometheus.Registry

	apiMetrics   *api.Metrics
	fetchMetrics *statusfetcher.Metrics
}

// session is a logged in controller connection.
type session struct {
	controller config.Controller
	conn       *api.Supervisor
}

func newDashboard(cfg config.Config, clk clock.Clock, dialer api.Dialer) (*dashboard, error) {
	d := &dashboard{
		cfg:          cfg,
		clock:        clk,
		dialer:       dialer,
		hub:          pubsub.NewSimpleHub(&pubsub.SimpleHubConfig{Logger: loggo.GetLogger("dashboard.pubsub")}),
		registry:     prometheus.NewRegistry(),
		apiMetrics:   api.NewMetrics(),
		fetchMetrics: statusfetcher.NewMetrics(),
	}
	recMetrics := reconciler.NewMetrics()
	for _, c := range []prometheus.Collector{d.apiMetrics, d.fetchMetrics, recMetrics} {
		if err := d.registry.Register(c); err != nil {
			return nil, errors.Trace(err)
		}
	}
	cache, err := modelcache.NewWorker(modelcache.Config{
		Hub:        d.hub,
		Reconciler: reconciler.New(recMetrics),
		Logger:     loggo.GetLogger("dashboard.worker.modelcache"),
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	d.cache = cache
	return d, nil
}

func (d *dashboard) dialOpts() api.DialOpts {
	opts := d.cfg.DialOpts()
	opts.Clock = d.clock
	opts.Metrics = d.apiMetrics
	if d.dialer != nil {
		opts.Dialer = d.dialer
	}
	return opts
}

// connect logs in to the controller. Only login timeouts are retried:
// a rejected login will be rejected again.
func (d *dashboard) connect(ctx context.Context, ctrl config.Controller) (*api.Supervisor, error) {
	var conn *api.Supervisor
	err := retry.Call(retry.CallArgs{
		Func: func() error {
			sup, err := api.NewSupervisor(ctrl.Info(), d.dialOpts())
			if err != nil {
				return errors.Trace(err)
			}
			if err := sup.Connect(ctx); err != nil {
				_ = sup.Close()
				return err
			}
			conn = sup
			return nil
		},
		IsFatalError: func(err error) bool {
			return !errors.Is(err, api.ErrLoginTimeout)
		},
		NotifyFunc: func(err error, attempt int) {
			logger.Warningf("controller %q: login attempt %d: %v", ctrl.Name, attempt, err)
		},
		Attempts: loginAttempts,
		Delay:    loginRetryDelay,
		Clock:    d.clock,
		Stop:     ctx.Done(),
	})
	if retry.IsAttemptsExceeded(err) {
		err = retry.LastError(err)
	}
	if err != nil {
		return nil, errors.Annotatef(err, "logging in to controller %q", ctrl.Name)
	}
	logger.Infof("logged in to controller %q as connection %s", ctrl.Name, conn.ID())
	return conn, nil
}

// fetch refreshes the status and details of every model of the session.
func (d *dashboard) fetch(ctx context.Context, s session) error {
	fetcher, err := statusfetcher.New(statusfetcher.Config{
		ControllerID: s.controller.Name,
		Session:      s.conn,
		Status: statusfetcher.ModelConnector{
			ControllerAddress: s.controller.Endpoint,
			Credentials:       s.controller.Credentials(),
			DialOpts:          d.dialOpts(),
		},
		ModelInfo:   modelmanager.NewClient(s.conn),
		Store:       d.cache,
		Logger:      loggo.GetLogger("dashboard.statusfetcher"),
		Concurrency: d.cfg.FetchConcurrency,
		Metrics:     d.fetchMetrics,
	})
	if err != nil {
		return errors.Trace(err)
	}
	fetcher.FetchAll(ctx, s.controller.Models)
	return nil
}

// feed is a delta feed of one model and the connection carrying it.
type feed struct {
	conn   *api.Supervisor
	worker worker.Worker
}

func (f feed) stop() {
	if err := worker.Stop(f.worker); err != nil {
		logger.Debugf("delta feed stopped: %v", err)
	}
	_ = f.conn.Close()
}

// follow opens a kept-alive model connection and pumps its delta feed
// into the cache.
func (d *dashboard) follow(ctx context.Context, ctrl config.Controller, modelUUID string) (feed, error) {
	endpoint, err := api.ModelEndpoint(ctrl.Endpoint, modelUUID)
	if err != nil {
		return feed{}, errors.Trace(err)
	}
	conn, err := api.NewSupervisor(api.Info{
		Endpoint:    endpoint,
		Credentials: ctrl.Credentials(),
	}, d.dialOpts())
	if err != nil {
		return feed{}, errors.Trace(err)
	}
	if err := conn.Connect(ctx); err != nil {
		_ = conn.Close()
		return feed{}, errors.Annotatef(err, "connecting to model %q", modelUUID)
	}
	watcher, err := api.WatchAll(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return feed{}, errors.Annotatef(err, "watching model %q", modelUUID)
	}
	w, err := allwatcher.NewWorker(allwatcher.Config{
		ModelUUID: modelUUID,
		Watcher:   watcher,
		Sink:      d.cache,
		Logger:    loggo.GetLogger("dashboard.worker.allwatcher"),
	})
	if err != nil {
		_ = conn.Close()
		return feed{}, errors.Trace(err)
	}
	return feed{conn: conn, worker: w}, nil
}

func (d *dashboard) writeReport(out io.Writer, format *formatterValue) error {
	var rep report
	if err := d.cache.Read(func(store *modelstate.Store) {
		rep = buildReport(store)
	}); err != nil {
		return errors.Trace(err)
	}
	data, err := format.format(rep)
	if err != nil {
		return errors.Annotate(err, "formatting report")
	}
	_, err = out.Write(data)
	return errors.Trace(err)
}

func (d *dashboard) serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("metrics server: %v", err)
		}
	}()
	return server
}

// run logs in to every controller, fetches the status of their models
// and writes a report. When watch is set it then follows the delta
// feeds of the models, writing a new report after each change, until
// ctx is done.
func (d *dashboard) run(ctx context.Context, opts options, out io.Writer) error {
	defer func() {
		if err := worker.Stop(d.cache); err != nil {
			logger.Errorf("stopping model cache: %v", err)
		}
	}()
	if opts.metricsAddr != "" {
		server := d.serveMetrics(opts.metricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	var sessions []session
	defer func() {
		for _, s := range sessions {
			_ = s.conn.Close()
		}
	}()
	for _, ctrl := range d.cfg.Controllers {
		conn, err := d.connect(ctx, ctrl)
		if err != nil {
			logger.Errorf("%v", err)
			continue
		}
		sessions = append(sessions, session{controller: ctrl, conn: conn})
	}
	if len(sessions) == 0 {
		return errors.New("no controller could be logged in to")
	}
	for _, s := range sessions {
		if err := d.fetch(ctx, s); err != nil {
			return errors.Trace(err)
		}
	}
	if err := d.writeReport(out, opts.format); err != nil {
		return errors.Trace(err)
	}
	if !opts.watch {
		return nil
	}
	return d.watch(ctx, sessions, opts, out)
}

func (d *dashboard) watch(ctx context.Context, sessions []session, opts options, out io.Writer) error {
	done := make(chan struct{})
	defer close(done)

	changed := make(chan struct{}, 1)
	lost := make(chan string, len(sessions))
	// feeds holds the running delta feeds by controller name.
	feeds := make(map[string][]feed)
	var watchers []*modelcache.ModelWatcher
	defer func() {
		for _, w := range watchers {
			_ = w.Stop()
		}
		for _, controllerFeeds := range feeds {
			for _, f := range controllerFeeds {
				f.stop()
			}
		}
	}()

	for _, s := range sessions {
		go func(s session) {
			select {
			case <-s.conn.Broken():
				select {
				case lost <- s.controller.Name:
				case <-done:
				}
			case <-done:
			}
		}(s)
		for _, uuid := range s.controller.Models {
			f, err := d.follow(ctx, s.controller, uuid)
			if err != nil {
				logger.Errorf("%v", err)
				continue
			}
			feeds[s.controller.Name] = append(feeds[s.controller.Name], f)
			w := modelcache.NewModelWatcher(d.hub, uuid, loggo.GetLogger("dashboard.worker.modelcache"))
			watchers = append(watchers, w)
			go forward(w, changed)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case name := <-lost:
			// The feeds go first so none of them can bring a model
			// back once the controller's models are dropped.
			for _, f := range feeds[name] {
				f.stop()
			}
			delete(feeds, name)
			removed, err := d.cache.ForgetController(name)
			if err != nil {
				return errors.Trace(err)
			}
			logger.Warningf("lost connection to controller %q, dropped %d models", name, len(removed))
		case <-changed:
			if err := d.writeReport(out, opts.format); err != nil {
				return errors.Trace(err)
			}
		}
	}
}

// forward coalesces the watcher's notifications onto changed until the
// watcher is stopped.
func forward(w *modelcache.ModelWatcher, changed chan<- struct{}) {
	for range w.Changes() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}
}
