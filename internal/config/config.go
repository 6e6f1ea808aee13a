// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package config reads the dashboard's YAML configuration file.
package config

import (
	"os"
	"time"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/names/v5"
	"gopkg.in/yaml.v3"

	"github.com/juju/juju-dashboard/api"
	"github.com/juju/juju-dashboard/internal/statusfetcher"
)

// Config holds the dashboard configuration.
type Config struct {
	// LoggingConfig is a loggo configuration string applied at start up.
	LoggingConfig string

	LoginTimeout     time.Duration
	PingInterval     time.Duration
	FetchConcurrency int

	Controllers []Controller
}

// Controller describes a controller to log in to and the models to
// track through it.
type Controller struct {
	Name             string
	Endpoint         string
	User             string
	Password         string
	IdentityProvider bool
	Models           []string
}

// Info returns the connection details of the controller's own API.
func (c Controller) Info() api.Info {
	return api.Info{
		Endpoint:    api.ControllerEndpoint(c.Endpoint),
		Credentials: c.Credentials(),
	}
}

// Credentials returns the credentials used to log in to the controller
// and to its models.
func (c Controller) Credentials() api.Credentials {
	return api.Credentials{
		User:             c.User,
		Password:         c.Password,
		IdentityProvider: c.IdentityProvider,
	}
}

// configFile is the on-disk form of Config.
type configFile struct {
	LoggingConfig    string           `yaml:"logging-config,omitempty"`
	LoginTimeout     string           `yaml:"login-timeout,omitempty"`
	PingInterval     string           `yaml:"ping-interval,omitempty"`
	FetchConcurrency int              `yaml:"fetch-concurrency,omitempty"`
	Controllers      []controllerFile `yaml:"controllers"`
}

type controllerFile struct {
	Name             string   `yaml:"name"`
	Endpoint         string   `yaml:"endpoint"`
	User             string   `yaml:"user,omitempty"`
	Password         string   `yaml:"password,omitempty"`
	IdentityProvider bool     `yaml:"identity-provider,omitempty"`
	Models           []string `yaml:"models,omitempty"`
}

// Default returns a config with the default timings and no
// controllers.
func Default() Config {
	return Config{
		LoginTimeout:     api.DefaultLoginTimeout,
		PingInterval:     api.DefaultPingInterval,
		FetchConcurrency: statusfetcher.DefaultConcurrency,
	}
}

// Read reads and validates the config file at path.
func Read(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Annotatef(err, "reading config %q", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Annotatef(err, "config %q", path)
	}
	return cfg, nil
}

// Parse decodes and validates YAML config data. Unset values take
// their defaults.
func Parse(data []byte) (Config, error) {
	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, errors.Annotate(err, "parsing config")
	}
	cfg := Default()
	cfg.LoggingConfig = file.LoggingConfig
	if file.LoginTimeout != "" {
		d, err := time.ParseDuration(file.LoginTimeout)
		if err != nil {
			return Config{}, errors.NotValidf("login-timeout %q", file.LoginTimeout)
		}
		cfg.LoginTimeout = d
	}
	if file.PingInterval != "" {
		d, err := time.ParseDuration(file.PingInterval)
		if err != nil {
			return Config{}, errors.NotValidf("ping-interval %q", file.PingInterval)
		}
		cfg.PingInterval = d
	}
	if file.FetchConcurrency != 0 {
		cfg.FetchConcurrency = file.FetchConcurrency
	}
	for _, c := range file.Controllers {
		cfg.Controllers = append(cfg.Controllers, Controller(c))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Trace(err)
	}
	return cfg, nil
}

// Validate returns an error if the config cannot be used.
func (cfg Config) Validate() error {
	if cfg.LoggingConfig != "" {
		if _, err := loggo.ParseConfigString(cfg.LoggingConfig); err != nil {
			return errors.NewNotValid(err, "logging-config")
		}
	}
	if cfg.LoginTimeout <= 0 {
		return errors.NotValidf("login-timeout %v", cfg.LoginTimeout)
	}
	if cfg.PingInterval <= 0 {
		return errors.NotValidf("ping-interval %v", cfg.PingInterval)
	}
	if cfg.FetchConcurrency < 1 {
		return errors.NotValidf("fetch-concurrency %d", cfg.FetchConcurrency)
	}
	if len(cfg.Controllers) == 0 {
		return errors.NotValidf("config without controllers")
	}
	seen := set.NewStrings()
	for _, c := range cfg.Controllers {
		if err := c.Validate(); err != nil {
			return errors.Trace(err)
		}
		if seen.Contains(c.Name) {
			return errors.NotValidf("duplicate controller %q", c.Name)
		}
		seen.Add(c.Name)
	}
	return nil
}

// Validate returns an error if the controller cannot be connected to.
func (c Controller) Validate() error {
	if c.Name == "" {
		return errors.NotValidf("controller without name")
	}
	if c.Endpoint == "" {
		return errors.NotValidf("controller %q without endpoint", c.Name)
	}
	if err := c.Info().Validate(); err != nil {
		return errors.Annotatef(err, "controller %q", c.Name)
	}
	for _, uuid := range c.Models {
		if !names.IsValidModel(uuid) {
			return errors.NotValidf("controller %q model %q", c.Name, uuid)
		}
	}
	return nil
}

// DialOpts returns the dial options for kept-alive controller
// connections.
func (cfg Config) DialOpts() api.DialOpts {
	opts := api.DefaultDialOpts()
	opts.LoginTimeout = cfg.LoginTimeout
	opts.PingInterval = cfg.PingInterval
	return opts
}
