// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package modelmanager_test

import (
	"context"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/juju/juju-dashboard/api/base/mocks"
	"github.com/juju/juju-dashboard/api/client/modelmanager"
	"github.com/juju/juju-dashboard/core/modelstate"
	"github.com/juju/juju-dashboard/rpc/params"
)

type modelManagerSuite struct{}

var _ = gc.Suite(&modelManagerSuite{})

const modelUUID = "deadbeef-0bad-400d-8000-4b1d0d06f00d"

func expectModelInfo(caller *mocks.MockAPICaller, results params.ModelInfoResults) {
	args := params.Entities{Entities: []params.Entity{{Tag: "model-" + modelUUID}}}
	caller.EXPECT().APICall(gomock.Any(), "ModelManager", 9, "", "ModelInfo", args, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, _ int, _, _ string, _, response interface{}) error {
			*(response.(*params.ModelInfoResults)) = results
			return nil
		})
}

func (s *modelManagerSuite) TestModelInfo(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	caller := mocks.NewMockAPICaller(ctrl)
	expectModelInfo(caller, params.ModelInfoResults{Results: []params.ModelInfoResult{{
		Result: &params.ModelInfo{
			Name:           "controller",
			Type:           "iaas",
			UUID:           modelUUID,
			ControllerUUID: "ctrl-uuid",
			IsController:   true,
			CloudTag:       "cloud-aws",
			CloudRegion:    "us-east-1",
			OwnerTag:       "user-admin",
			Life:           "alive",
			Status:         params.EntityStatus{Status: "available"},
			AgentVersion:   "3.6.0",
		},
	}}})

	details, err := modelmanager.NewClient(caller).ModelInfo(context.Background(), modelUUID)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(details, jc.DeepEquals, modelstate.ModelDetails{
		UUID:           modelUUID,
		Name:           "controller",
		Type:           "iaas",
		ControllerUUID: "ctrl-uuid",
		IsController:   true,
		Cloud:          "aws",
		CloudRegion:    "us-east-1",
		Owner:          "admin",
		Life:           "alive",
		AgentVersion:   "3.6.0",
		Status:         "available",
	})
}

func (s *modelManagerSuite) TestModelInfoResultError(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	caller := mocks.NewMockAPICaller(ctrl)
	expectModelInfo(caller, params.ModelInfoResults{Results: []params.ModelInfoResult{{
		Error: &params.Error{Message: "model not found", Code: params.CodeNotFound},
	}}})

	_, err := modelmanager.NewClient(caller).ModelInfo(context.Background(), modelUUID)
	c.Check(err, gc.ErrorMatches, "model not found")
	c.Check(err, jc.ErrorIs, errors.NotFound)
}

func (s *modelManagerSuite) TestModelInfoWrongResultCount(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	caller := mocks.NewMockAPICaller(ctrl)
	expectModelInfo(caller, params.ModelInfoResults{})

	_, err := modelmanager.NewClient(caller).ModelInfo(context.Background(), modelUUID)
	c.Check(err, gc.ErrorMatches, "expected 1 result, got 0")
}

func (s *modelManagerSuite) TestModelInfoInvalidUUID(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	caller := mocks.NewMockAPICaller(ctrl)
	_, err := modelmanager.NewClient(caller).ModelInfo(context.Background(), "abc123")
	c.Check(err, jc.ErrorIs, errors.NotValid)
}
