// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package scale_test

import (
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/juju-dashboard/core/modelstate"
	"github.com/juju/juju-dashboard/core/scale"
)

type scaleSuite struct {
	testing.IsolationSuite

	snap *modelstate.Snapshot
}

var _ = gc.Suite(&scaleSuite{})

func key(name string) modelstate.UnitKey {
	return modelstate.MustParseUnitKey(name)
}

func (s *scaleSuite) addUnit(name, machine string) {
	s.snap.UpsertUnit(modelstate.Unit{
		Key:       key(name),
		Name:      name,
		MachineID: machine,
	})
}

func (s *scaleSuite) addSubordinate(name, principal string) {
	p := key(principal)
	s.snap.UpsertUnit(modelstate.Unit{
		Key:       key(name),
		Name:      name,
		Principal: &p,
	})
}

// SetUpTest builds a model where nrpe rides along with both wordpress
// and mysql, and telegraf rides along with wordpress only:
//
//	machine 0: wordpress/0 (nrpe/0, telegraf/0)
//	machine 1: wordpress/1 (nrpe/1, telegraf/1)
//	machine 2: mysql/0     (nrpe/2)
func (s *scaleSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.snap = modelstate.NewSnapshot("abc123")
	s.addUnit("wordpress/0", "0")
	s.addUnit("wordpress/1", "1")
	s.addUnit("mysql/0", "2")
	s.addSubordinate("nrpe/0", "wordpress/0")
	s.addSubordinate("nrpe/1", "wordpress/1")
	s.addSubordinate("nrpe/2", "mysql/0")
	s.addSubordinate("telegraf/0", "wordpress/0")
	s.addSubordinate("telegraf/1", "wordpress/1")
}

func unitNames(units []*modelstate.Unit) []string {
	names := make([]string, len(units))
	for i, u := range units {
		names[i] = u.Name
	}
	return names
}

func (s *scaleSuite) TestAppScale(c *gc.C) {
	c.Check(scale.AppScale(s.snap, "wordpress"), gc.Equals, 2)
	c.Check(scale.AppScale(s.snap, "mysql"), gc.Equals, 1)
	c.Check(scale.AppScale(s.snap, "nrpe"), gc.Equals, 3)
	c.Check(scale.AppScale(s.snap, "telegraf"), gc.Equals, 2)
	c.Check(scale.AppScale(s.snap, "missing"), gc.Equals, 0)
}

func (s *scaleSuite) TestAppScaleMatchesSumOfParents(c *gc.C) {
	nrpe := s.snap.Applications["nrpe"]
	sum := 0
	for _, parent := range nrpe.SubordinateTo {
		sum += scale.AppScale(s.snap, parent)
	}
	c.Check(scale.AppScale(s.snap, "nrpe"), gc.Equals, sum)
}

func (s *scaleSuite) TestCombinedScaleCountsParentOnce(c *gc.C) {
	// Subordinate plus its parent: wordpress counted once.
	c.Check(scale.CombinedScale(s.snap, "telegraf", "wordpress"), gc.Equals, 2)
	// Sibling subordinates of the same parent.
	c.Check(scale.CombinedScale(s.snap, "telegraf", "nrpe"), gc.Equals, 3)
	c.Check(scale.CombinedScale(s.snap, "nrpe", "telegraf", "wordpress", "mysql"), gc.Equals, 3)
	c.Check(scale.CombinedScale(s.snap, "mysql"), gc.Equals, 1)
	c.Check(scale.CombinedScale(s.snap), gc.Equals, 0)
	c.Check(scale.CombinedScale(s.snap, "missing"), gc.Equals, 0)
}

func (s *scaleSuite) TestAppUnits(c *gc.C) {
	c.Check(unitNames(scale.AppUnits(s.snap, "wordpress")), jc.DeepEquals, []string{"wordpress/0", "wordpress/1"})
	c.Check(unitNames(scale.AppUnits(s.snap, "nrpe")), jc.DeepEquals, []string{"nrpe/0", "nrpe/1", "nrpe/2"})
	c.Check(scale.AppUnits(s.snap, "missing"), gc.HasLen, 0)
}

func (s *scaleSuite) TestAppMachines(c *gc.C) {
	c.Check(scale.AppMachines(s.snap, "wordpress"), jc.DeepEquals, []string{"0", "1"})
	c.Check(scale.AppMachines(s.snap, "nrpe"), jc.DeepEquals, []string{"0", "1", "2"})
	c.Check(scale.AppMachines(s.snap, "telegraf"), jc.DeepEquals, []string{"0", "1"})
}

func (s *scaleSuite) TestMachineUnitsAndApps(c *gc.C) {
	c.Check(unitNames(scale.MachineUnits(s.snap, "0")), jc.DeepEquals, []string{"nrpe/0", "telegraf/0", "wordpress/0"})
	c.Check(scale.MachineApps(s.snap, "0"), jc.DeepEquals, []string{"nrpe", "telegraf", "wordpress"})
	c.Check(scale.MachineApps(s.snap, "2"), jc.DeepEquals, []string{"mysql", "nrpe"})
	c.Check(scale.MachineUnits(s.snap, "9"), gc.HasLen, 0)
}

func (s *scaleSuite) TestUnitLookups(c *gc.C) {
	u, ok := scale.Unit(s.snap, key("wordpress/1"))
	c.Assert(ok, jc.IsTrue)
	c.Check(u.Name, gc.Equals, "wordpress/1")

	u, ok = scale.Unit(s.snap, key("nrpe/2"))
	c.Assert(ok, jc.IsTrue)
	c.Check(u.Name, gc.Equals, "nrpe/2")

	_, ok = scale.Unit(s.snap, key("nrpe/7"))
	c.Check(ok, jc.IsFalse)

	app, ok := scale.UnitApp(s.snap, key("nrpe/2"))
	c.Assert(ok, jc.IsTrue)
	c.Check(app.Name, gc.Equals, "nrpe")

	_, ok = scale.UnitApp(s.snap, key("nrpe/7"))
	c.Check(ok, jc.IsFalse)
}

func (s *scaleSuite) TestParentLookups(c *gc.C) {
	parent, ok := scale.ParentUnit(s.snap, key("nrpe/2"))
	c.Assert(ok, jc.IsTrue)
	c.Check(parent.Name, gc.Equals, "mysql/0")

	_, ok = scale.ParentUnit(s.snap, key("mysql/0"))
	c.Check(ok, jc.IsFalse)

	u, ok := scale.ParentOrUnit(s.snap, key("telegraf/1"))
	c.Assert(ok, jc.IsTrue)
	c.Check(u.Name, gc.Equals, "wordpress/1")

	u, ok = scale.ParentOrUnit(s.snap, key("mysql/0"))
	c.Assert(ok, jc.IsTrue)
	c.Check(u.Name, gc.Equals, "mysql/0")

	_, ok = scale.ParentOrUnit(s.snap, key("nope/0"))
	c.Check(ok, jc.IsFalse)
}

func (s *scaleSuite) TestMachinesInNaturalOrder(c *gc.C) {
	s.addUnit("wordpress/2", "10")
	s.addSubordinate("nrpe/3", "wordpress/2")
	c.Check(scale.AppMachines(s.snap, "wordpress"), jc.DeepEquals, []string{"0", "1", "10"})
	c.Check(scale.AppMachines(s.snap, "nrpe"), jc.DeepEquals, []string{"0", "1", "2", "10"})
}

// fullStatus has nrpe on wordpress/0 only; wordpress/1 has not yet
// grown its subordinate.
func fullStatus() *modelstate.ModelStatus {
	return &modelstate.ModelStatus{
		Applications: map[string]modelstate.ApplicationStatus{
			"wordpress": {
				Units: map[string]modelstate.UnitStatus{
					"wordpress/0": {
						Machine: "2",
						Subordinates: map[string]modelstate.UnitStatus{
							"nrpe/0": {},
						},
					},
					"wordpress/1": {Machine: "10"},
				},
			},
			"mysql": {
				Units: map[string]modelstate.UnitStatus{
					"mysql/0": {Machine: "3"},
				},
			},
			"nrpe": {
				SubordinateTo: []string{"wordpress"},
			},
		},
	}
}

func (s *scaleSuite) TestStatusAppScale(c *gc.C) {
	status := fullStatus()
	c.Check(scale.StatusAppScale(status, "wordpress"), gc.Equals, 2)
	c.Check(scale.StatusAppScale(status, "mysql"), gc.Equals, 1)
	// Parent units count, not the subordinate units present so far.
	c.Check(scale.StatusAppScale(status, "nrpe"), gc.Equals, 2)
	c.Check(scale.StatusAppScale(status, "missing"), gc.Equals, 0)
}

func (s *scaleSuite) TestStatusAppMachines(c *gc.C) {
	status := fullStatus()
	c.Check(scale.StatusAppMachines(status, "wordpress"), jc.DeepEquals, []string{"2", "10"})
	c.Check(scale.StatusAppMachines(status, "nrpe"), jc.DeepEquals, []string{"2"})
	c.Check(scale.StatusAppMachines(status, "missing"), gc.HasLen, 0)
}
