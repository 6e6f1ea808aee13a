// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package base

import (
	"context"
)

// APICaller is implemented by the client-facing State object.
// It defines the lowest level of API calls and is used by
// the various API implementations to actually make
// the calls to the API. It should not be used outside
// of tests or the api/* hierarchy.
type APICaller interface {
	// APICall makes a call to the API server with the given object type,
	// id, request and parameters. The response is filled in with the
	// call's result if the call is successful.
	APICall(ctx context.Context, objType string, version int, id, request string, params, response interface{}) error
}

// FacadeCaller is a wrapper for the common paradigm that a given client
// just wants to make calls on a facade using the best known version of
// the API.
type FacadeCaller interface {
	// FacadeCall will place a request against the API using the
	// requested Facade and the best version that the API server
	// supports that is also known to the client.
	FacadeCall(ctx context.Context, request string, params, response interface{}) error

	// Name returns the facade name.
	Name() string

	// RawAPICaller returns the wrapped APICaller.
	RawAPICaller() APICaller
}

type facadeCaller struct {
	facadeName string
	version    int
	caller     APICaller
}

// NewFacadeCallerForVersion wraps an APICaller for a given facade name
// and version.
func NewFacadeCallerForVersion(caller APICaller, facadeName string, version int) FacadeCaller {
	return facadeCaller{
		facadeName: facadeName,
		version:    version,
		caller:     caller,
	}
}

// FacadeCall is part of FacadeCaller.
func (fc facadeCaller) FacadeCall(ctx context.Context, request string, params, response interface{}) error {
	return fc.caller.APICall(ctx, fc.facadeName, fc.version, "", request, params, response)
}

// Name is part of FacadeCaller.
func (fc facadeCaller) Name() string {
	return fc.facadeName
}

// RawAPICaller is part of FacadeCaller.
func (fc facadeCaller) RawAPICaller() APICaller {
	return fc.caller
}
