// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modelstate_test

import (
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/juju-dashboard/core/modelstate"
)

type snapshotSuite struct {
	testing.IsolationSuite

	snap *modelstate.Snapshot
}

var _ = gc.Suite(&snapshotSuite{})

func (s *snapshotSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	s.snap = modelstate.NewSnapshot("model-uuid")
}

func unit(name string) modelstate.Unit {
	return modelstate.Unit{
		Key:  modelstate.MustParseUnitKey(name),
		Name: name,
	}
}

func subordinate(name, principal string) modelstate.Unit {
	u := unit(name)
	key := modelstate.MustParseUnitKey(principal)
	u.Principal = &key
	return u
}

func (s *snapshotSuite) TestUpsertUnitCountsFirstSighting(c *gc.C) {
	c.Check(s.snap.UpsertUnit(unit("ceph/0")), jc.IsTrue)
	c.Check(s.snap.UpsertUnit(unit("ceph/0")), jc.IsFalse)
	c.Check(s.snap.UpsertUnit(unit("ceph/1")), jc.IsTrue)

	app := s.snap.Applications["ceph"]
	c.Assert(app, gc.NotNil)
	c.Check(app.UnitCount, gc.Equals, 2)
	c.Check(s.snap.Units, gc.HasLen, 2)
}

func (s *snapshotSuite) TestUpsertApplicationPreservesUnitCount(c *gc.C) {
	s.snap.UpsertUnit(unit("ceph/0"))
	s.snap.UpsertApplication(modelstate.Application{
		Name:      "ceph",
		CharmURL:  "ch:ceph-1",
		UnitCount: 42,
	})

	app := s.snap.Applications["ceph"]
	c.Check(app.UnitCount, gc.Equals, 1)
	c.Check(app.CharmURL, gc.Equals, "ch:ceph-1")
}

func (s *snapshotSuite) TestUpsertNewApplicationIgnoresIncomingCount(c *gc.C) {
	s.snap.UpsertApplication(modelstate.Application{Name: "ceph", UnitCount: 3})
	c.Check(s.snap.Applications["ceph"].UnitCount, gc.Equals, 0)
}

func (s *snapshotSuite) TestRemoveUnitDoesNotDecrement(c *gc.C) {
	s.snap.UpsertUnit(unit("ceph/0"))
	s.snap.UpsertUnit(unit("ceph/1"))

	c.Check(s.snap.RemoveUnit(modelstate.MustParseUnitKey("ceph/0"), nil), jc.IsTrue)
	c.Check(s.snap.Units, gc.HasLen, 1)
	c.Check(s.snap.Applications["ceph"].UnitCount, gc.Equals, 2)
}

func (s *snapshotSuite) TestSubordinateNestedUnderParent(c *gc.C) {
	s.snap.UpsertUnit(unit("mysql/0"))
	c.Check(s.snap.UpsertUnit(subordinate("nrpe/0", "mysql/0")), jc.IsTrue)
	c.Check(s.snap.UpsertUnit(subordinate("nrpe/0", "mysql/0")), jc.IsFalse)

	_, topLevel := s.snap.Units[modelstate.MustParseUnitKey("nrpe/0")]
	c.Check(topLevel, jc.IsFalse)
	parent := s.snap.Units[modelstate.MustParseUnitKey("mysql/0")]
	c.Check(parent.Subordinates, gc.HasLen, 1)

	nrpe := s.snap.Applications["nrpe"]
	c.Assert(nrpe, gc.NotNil)
	c.Check(nrpe.IsSubordinate(), jc.IsTrue)
	c.Check(nrpe.SubordinateTo, jc.DeepEquals, []string{"mysql"})
	c.Check(nrpe.UnitCount, gc.Equals, 0)
	c.Check(s.snap.Applications["mysql"].UnitCount, gc.Equals, 1)
}

func (s *snapshotSuite) TestSubordinateBeforeParentCreatesPlaceholder(c *gc.C) {
	s.snap.UpsertUnit(subordinate("nrpe/0", "mysql/0"))
	c.Check(s.snap.Applications["mysql"].UnitCount, gc.Equals, 1)

	// The parent's own delta is now a change of a known unit.
	parent := unit("mysql/0")
	parent.MachineID = "3"
	c.Check(s.snap.UpsertUnit(parent), jc.IsFalse)
	c.Check(s.snap.Applications["mysql"].UnitCount, gc.Equals, 1)

	stored := s.snap.Units[modelstate.MustParseUnitKey("mysql/0")]
	c.Check(stored.MachineID, gc.Equals, "3")
	c.Check(stored.Subordinates, gc.HasLen, 1)
}

func (s *snapshotSuite) TestApplicationChangeKeepsSubordinateTo(c *gc.C) {
	s.snap.UpsertUnit(subordinate("nrpe/0", "mysql/0"))
	s.snap.UpsertApplication(modelstate.Application{Name: "nrpe", SubordinateTo: []string{"wordpress", "mysql"}})
	c.Check(s.snap.Applications["nrpe"].SubordinateTo, jc.DeepEquals, []string{"mysql", "wordpress"})
}

func (s *snapshotSuite) TestRemoveSubordinateWithoutPrincipal(c *gc.C) {
	s.snap.UpsertUnit(subordinate("nrpe/0", "mysql/0"))
	c.Check(s.snap.RemoveUnit(modelstate.MustParseUnitKey("nrpe/0"), nil), jc.IsTrue)
	c.Check(s.snap.Units[modelstate.MustParseUnitKey("mysql/0")].Subordinates, gc.HasLen, 0)
	c.Check(s.snap.RemoveUnit(modelstate.MustParseUnitKey("nrpe/0"), nil), jc.IsFalse)
}

func (s *snapshotSuite) TestAnnotations(c *gc.C) {
	s.snap.SetAnnotations("ceph", map[string]string{"gui-x": "10"})
	c.Check(s.snap.Annotations["ceph"], jc.DeepEquals, map[string]string{"gui-x": "10"})

	s.snap.SetAnnotations("ceph", nil)
	_, ok := s.snap.Annotations["ceph"]
	c.Check(ok, jc.IsFalse)
}

func (s *snapshotSuite) TestReplaceByKey(c *gc.C) {
	s.snap.UpsertMachine(modelstate.Machine{ID: "0", Series: "jammy", InstanceID: "i-1"})
	s.snap.UpsertMachine(modelstate.Machine{ID: "0", Series: "noble"})
	c.Check(*s.snap.Machines["0"], jc.DeepEquals, modelstate.Machine{ID: "0", Series: "noble"})

	s.snap.UpsertCharm(modelstate.Charm{URL: "ch:ceph-1"})
	s.snap.UpsertRelation(modelstate.Relation{Key: "a:b c:d"})
	s.snap.UpsertAction(modelstate.Action{ID: "1"})
	c.Check(s.snap.RemoveCharm("ch:ceph-1"), jc.IsTrue)
	c.Check(s.snap.RemoveRelation("a:b c:d"), jc.IsTrue)
	c.Check(s.snap.RemoveAction("1"), jc.IsTrue)
	c.Check(s.snap.RemoveMachine("0"), jc.IsTrue)
	c.Check(s.snap.RemoveMachine("0"), jc.IsFalse)
}
