// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

// facadeVersions lists the version of each facade the dashboard talks
// to. Every caller in this module goes through BestFacadeVersion so the
// versions are pinned in one place.
var facadeVersions = map[string]int{
	"Admin":        3,
	"AllWatcher":   3,
	"Client":       6,
	"ModelManager": 9,
	"Pinger":       1,
}

// BestFacadeVersion returns the version to use for the named facade,
// or 0 if the facade is unknown.
func BestFacadeVersion(facade string) int {
	return facadeVersions[facade]
}
