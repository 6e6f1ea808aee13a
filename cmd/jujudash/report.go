// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"github.com/juju/collections/set"

	"github.com/juju/juju-dashboard/core/modelstate"
	"github.com/juju/juju-dashboard/core/scale"
)

type report struct {
	Controllers map[string]controllerReport `yaml:"controllers,omitempty" json:"controllers,omitempty"`
	Models      []modelReport               `yaml:"models" json:"models"`
}

type controllerReport struct {
	Cloud  string `yaml:"cloud,omitempty" json:"cloud,omitempty"`
	Region string `yaml:"region,omitempty" json:"region,omitempty"`
}

type modelReport struct {
	UUID         string                       `yaml:"uuid" json:"uuid"`
	Name         string                       `yaml:"name,omitempty" json:"name,omitempty"`
	Owner        string                       `yaml:"owner,omitempty" json:"owner,omitempty"`
	Controller   string                       `yaml:"controller,omitempty" json:"controller,omitempty"`
	Status       string                       `yaml:"status,omitempty" json:"status,omitempty"`
	StatusError  string                       `yaml:"status-error,omitempty" json:"status-error,omitempty"`
	Applications map[string]applicationReport `yaml:"applications,omitempty" json:"applications,omitempty"`
}

type applicationReport struct {
	Charm       string   `yaml:"charm,omitempty" json:"charm,omitempty"`
	Status      string   `yaml:"status,omitempty" json:"status,omitempty"`
	Scale       int      `yaml:"scale" json:"scale"`
	Subordinate bool     `yaml:"subordinate,omitempty" json:"subordinate,omitempty"`
	Machines    []string `yaml:"machines,omitempty" json:"machines,omitempty"`
}

// buildReport summarises every model in the store. Models followed on
// a delta feed are reported from their entities; the others from their
// last fetched status.
func buildReport(store *modelstate.Store) report {
	var rep report
	controllers := set.NewStrings()
	for _, uuid := range store.ModelUUIDs() {
		snap, _ := store.Snapshot(uuid)
		rep.Models = append(rep.Models, modelSummary(snap))
		if snap.ControllerID != "" {
			controllers.Add(snap.ControllerID)
		}
	}
	for _, id := range controllers.SortedValues() {
		info, err := store.Controller(id)
		if err != nil {
			continue
		}
		if rep.Controllers == nil {
			rep.Controllers = make(map[string]controllerReport)
		}
		rep.Controllers[id] = controllerReport{
			Cloud:  info.Cloud,
			Region: info.Region,
		}
	}
	return rep
}

func modelSummary(snap *modelstate.Snapshot) modelReport {
	m := modelReport{
		UUID:        snap.UUID,
		Name:        snap.Model.Name,
		Owner:       snap.Model.Owner,
		Controller:  snap.ControllerID,
		Status:      snap.Model.Status.Current,
		StatusError: snap.StatusError,
	}
	if d := snap.Details; d != nil {
		if m.Name == "" {
			m.Name = d.Name
		}
		if m.Owner == "" {
			m.Owner = d.Owner
		}
		if m.Status == "" {
			m.Status = d.Status
		}
	}
	if len(snap.Applications) > 0 {
		m.Applications = applicationsFromEntities(snap)
	} else if snap.Status != nil {
		m.Applications = applicationsFromStatus(snap.Status)
	}
	return m
}

func applicationsFromEntities(snap *modelstate.Snapshot) map[string]applicationReport {
	apps := make(map[string]applicationReport, len(snap.Applications))
	for name, app := range snap.Applications {
		apps[name] = applicationReport{
			Charm:       app.CharmURL,
			Status:      app.Status.Current,
			Scale:       scale.AppScale(snap, name),
			Subordinate: app.IsSubordinate(),
			Machines:    scale.AppMachines(snap, name),
		}
	}
	return apps
}

func applicationsFromStatus(status *modelstate.ModelStatus) map[string]applicationReport {
	apps := make(map[string]applicationReport, len(status.Applications))
	for name, app := range status.Applications {
		summary := applicationReport{
			Charm:       app.Charm,
			Status:      app.Status.Status,
			Scale:       scale.StatusAppScale(status, name),
			Subordinate: len(app.SubordinateTo) > 0,
		}
		if machines := scale.StatusAppMachines(status, name); len(machines) > 0 {
			summary.Machines = machines
		}
		apps[name] = summary
	}
	return apps
}
