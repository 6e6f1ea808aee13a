// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package reconciler

import (
	"github.com/juju/juju-dashboard/core/delta"
	"github.com/juju/juju-dashboard/core/modelstate"
)

func statusFromInfo(s delta.StatusInfo) modelstate.StatusInfo {
	return modelstate.StatusInfo{
		Current: s.Current,
		Message: s.Message,
		Version: s.Version,
		Since:   s.Since,
		Data:    s.Data,
	}
}

func actionFromInfo(i *delta.ActionInfo) modelstate.Action {
	return modelstate.Action{
		ID:         i.ID,
		Receiver:   i.Receiver,
		Name:       i.Name,
		Status:     i.Status,
		Message:    i.Message,
		Parameters: i.Parameters,
		Results:    i.Results,
		Enqueued:   i.Enqueued,
		Started:    i.Started,
		Completed:  i.Completed,
	}
}

// applicationFromInfo deliberately drops the payload's unit count.
func applicationFromInfo(i *delta.ApplicationInfo) modelstate.Application {
	return modelstate.Application{
		Name:            i.Name,
		CharmURL:        i.CharmURL,
		Life:            i.Life,
		Exposed:         i.Exposed,
		MinUnits:        i.MinUnits,
		WorkloadVersion: i.WorkloadVersion,
		Status:          statusFromInfo(i.Status),
		Config:          i.Config,
		Subordinate:     i.Subordinate,
		SubordinateTo:   append([]string(nil), i.SubordinateTo...),
	}
}

func charmFromInfo(i *delta.CharmInfo) modelstate.Charm {
	return modelstate.Charm{
		URL:           i.CharmURL,
		Version:       i.CharmVersion,
		Life:          i.Life,
		DefaultConfig: i.DefaultConfig,
	}
}

func machineFromInfo(i *delta.MachineInfo) modelstate.Machine {
	var addresses []modelstate.Address
	for _, a := range i.Addresses {
		addresses = append(addresses, modelstate.Address{
			Value: a.Value,
			Type:  a.Type,
			Scope: a.Scope,
		})
	}
	return modelstate.Machine{
		ID:                      i.ID,
		InstanceID:              i.InstanceID,
		Life:                    i.Life,
		Series:                  i.Series,
		AgentStatus:             statusFromInfo(i.AgentStatus),
		InstanceStatus:          statusFromInfo(i.InstanceStatus),
		Addresses:               addresses,
		HardwareCharacteristics: i.HardwareCharacteristics,
	}
}

func modelFromInfo(uuid string, i *delta.ModelInfo) modelstate.ModelInfo {
	return modelstate.ModelInfo{
		UUID:           uuid,
		Name:           i.Name,
		Type:           i.Type,
		Life:           i.Life,
		Owner:          i.Owner,
		ControllerUUID: i.ControllerUUID,
		IsController:   i.IsController,
		Cloud:          i.Cloud,
		CloudRegion:    i.CloudRegion,
		Version:        i.Version,
		Status:         statusFromInfo(i.Status),
		Config:         i.Config,
	}
}

func relationFromInfo(i *delta.RelationInfo) modelstate.Relation {
	endpoints := make([]modelstate.Endpoint, len(i.Endpoints))
	for n, ep := range i.Endpoints {
		endpoints[n] = modelstate.Endpoint{
			ApplicationName: ep.ApplicationName,
			Name:            ep.Relation.Name,
			Role:            ep.Relation.Role,
			Interface:       ep.Relation.Interface,
			Scope:           ep.Relation.Scope,
		}
	}
	return modelstate.Relation{
		Key:       i.Key,
		ID:        i.ID,
		Endpoints: endpoints,
	}
}

func unitFromInfo(i *delta.UnitInfo) modelstate.Unit {
	u := modelstate.Unit{
		Key:            i.Key,
		Name:           i.Key.String(),
		MachineID:      i.MachineID,
		CharmURL:       i.CharmURL,
		Life:           i.Life,
		PublicAddress:  i.PublicAddress,
		PrivateAddress: i.PrivateAddress,
		WorkloadStatus: statusFromInfo(i.WorkloadStatus),
		AgentStatus:    statusFromInfo(i.AgentStatus),
	}
	if i.PrincipalKey != nil {
		principal := *i.PrincipalKey
		u.Principal = &principal
	}
	return u
}
