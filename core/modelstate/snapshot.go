// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modelstate

// Snapshot is the normalized view of a single model, built by folding
// watcher deltas and fetched status into it.
//
// All fields are exported so that readers can be handed deep copies;
// writers must go through the mutation methods, which maintain the
// unit count and subordinate nesting invariants.
type Snapshot struct {
	UUID string

	// ControllerID identifies the controller the model was fetched
	// through. It is empty until model details have been stored.
	ControllerID string

	Applications map[string]*Application
	Units        map[UnitKey]*Unit
	Machines     map[string]*Machine
	Relations    map[string]*Relation
	Charms       map[string]*Charm
	Actions      map[string]*Action
	Annotations  map[string]map[string]string
	Model        ModelInfo

	// Status holds the allow-listed fields of the last fetched full
	// status, and StatusError the message of the last failed fetch.
	Status      *ModelStatus
	StatusError string

	// Details holds the last fetched model information.
	Details *ModelDetails
}

// NewSnapshot returns an empty snapshot for the model.
func NewSnapshot(uuid string) *Snapshot {
	return &Snapshot{
		UUID:         uuid,
		Applications: make(map[string]*Application),
		Units:        make(map[UnitKey]*Unit),
		Machines:     make(map[string]*Machine),
		Relations:    make(map[string]*Relation),
		Charms:       make(map[string]*Charm),
		Actions:      make(map[string]*Action),
		Annotations:  make(map[string]map[string]string),
	}
}

// SetModel replaces the model level metadata.
func (s *Snapshot) SetModel(info ModelInfo) {
	s.Model = info
}

// UpsertApplication stores the application, replacing any existing entry
// of the same name. The tracked UnitCount is always preserved: it is only
// ever changed by unit deltas, so that an application change (a config
// or charm update, say) cannot stomp on a count that unit deltas are
// maintaining. SubordinateTo is the union of the tracked and incoming sets.
func (s *Snapshot) UpsertApplication(app Application) {
	incoming := app.SubordinateTo
	app.SubordinateTo = nil
	app.UnitCount = 0
	if existing, ok := s.Applications[app.Name]; ok {
		app.UnitCount = existing.UnitCount
		app.SubordinateTo = append(app.SubordinateTo, existing.SubordinateTo...)
		app.Subordinate = app.Subordinate || existing.Subordinate
	}
	app.addSubordinateTo(incoming...)
	s.Applications[app.Name] = &app
}

// RemoveApplication deletes the named application.
func (s *Snapshot) RemoveApplication(name string) bool {
	_, ok := s.Applications[name]
	delete(s.Applications, name)
	return ok
}

// UpsertUnit stores the unit and reports whether it had not been seen
// before. The first sighting of a principal unit increments the owning
// application's UnitCount, creating a placeholder application if needed.
// Subordinate units are nested under their parent unit, which is itself
// created as a placeholder if it has not been seen yet.
func (s *Snapshot) UpsertUnit(u Unit) bool {
	if u.Principal != nil {
		return s.upsertSubordinateUnit(u)
	}
	existing, known := s.Units[u.Key]
	if known {
		u.Subordinates = existing.Subordinates
	} else {
		u.Subordinates = make(map[UnitKey]*Unit)
	}
	s.Units[u.Key] = &u
	if !known {
		s.ensureApplication(u.Key.Application).UnitCount++
	}
	return !known
}

func (s *Snapshot) upsertSubordinateUnit(u Unit) bool {
	parentKey := *u.Principal
	parent, ok := s.Units[parentKey]
	if !ok {
		parent = &Unit{
			Key:          parentKey,
			Name:         parentKey.String(),
			Subordinates: make(map[UnitKey]*Unit),
		}
		s.Units[parentKey] = parent
		s.ensureApplication(parentKey.Application).UnitCount++
	}
	_, known := parent.Subordinates[u.Key]
	u.Subordinates = nil
	parent.Subordinates[u.Key] = &u

	app := s.ensureApplication(u.Key.Application)
	app.Subordinate = true
	app.addSubordinateTo(parentKey.Application)
	return !known
}

// RemoveUnit deletes the unit, searching parent units when the key is a
// subordinate. The owning application's UnitCount is deliberately left
// untouched; the feed follows a unit removal with an application change
// carrying the corrected state.
func (s *Snapshot) RemoveUnit(key UnitKey, principal *UnitKey) bool {
	if principal != nil {
		if parent, ok := s.Units[*principal]; ok {
			if _, ok := parent.Subordinates[key]; ok {
				delete(parent.Subordinates, key)
				return true
			}
		}
	}
	if _, ok := s.Units[key]; ok {
		delete(s.Units, key)
		return true
	}
	for _, parent := range s.Units {
		if _, ok := parent.Subordinates[key]; ok {
			delete(parent.Subordinates, key)
			return true
		}
	}
	return false
}

// UpsertMachine stores the machine, replacing any existing entry.
func (s *Snapshot) UpsertMachine(m Machine) {
	s.Machines[m.ID] = &m
}

// RemoveMachine deletes the machine with the given id.
func (s *Snapshot) RemoveMachine(id string) bool {
	_, ok := s.Machines[id]
	delete(s.Machines, id)
	return ok
}

// UpsertRelation stores the relation, replacing any existing entry.
func (s *Snapshot) UpsertRelation(r Relation) {
	s.Relations[r.Key] = &r
}

// RemoveRelation deletes the relation with the given key.
func (s *Snapshot) RemoveRelation(key string) bool {
	_, ok := s.Relations[key]
	delete(s.Relations, key)
	return ok
}

// UpsertCharm stores the charm, replacing any existing entry.
func (s *Snapshot) UpsertCharm(ch Charm) {
	s.Charms[ch.URL] = &ch
}

// RemoveCharm deletes the charm with the given URL.
func (s *Snapshot) RemoveCharm(url string) bool {
	_, ok := s.Charms[url]
	delete(s.Charms, url)
	return ok
}

// UpsertAction stores the action, replacing any existing entry.
func (s *Snapshot) UpsertAction(a Action) {
	s.Actions[a.ID] = &a
}

// RemoveAction deletes the action with the given id.
func (s *Snapshot) RemoveAction(id string) bool {
	_, ok := s.Actions[id]
	delete(s.Actions, id)
	return ok
}

// SetAnnotations replaces the annotations of the entity. An empty set
// clears the entry.
func (s *Snapshot) SetAnnotations(entity string, annotations map[string]string) {
	if len(annotations) == 0 {
		delete(s.Annotations, entity)
		return
	}
	copied := make(map[string]string, len(annotations))
	for k, v := range annotations {
		copied[k] = v
	}
	s.Annotations[entity] = copied
}

func (s *Snapshot) ensureApplication(name string) *Application {
	app, ok := s.Applications[name]
	if !ok {
		app = &Application{Name: name}
		s.Applications[name] = app
	}
	return app
}
