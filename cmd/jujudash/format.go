// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

// formatter converts a report into bytes.
type formatter func(value interface{}) ([]byte, error)

func formatYaml(value interface{}) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	return yaml.Marshal(value)
}

func formatJson(value interface{}) ([]byte, error) {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

var defaultFormatters = map[string]formatter{
	"yaml": formatYaml,
	"json": formatJson,
}

// formatterValue implements gnuflag.Value for the --format flag.
type formatterValue struct {
	name       string
	formatters map[string]formatter
}

// newFormatterValue returns a formatterValue set to initial, which must
// name one of formatters.
func newFormatterValue(initial string, formatters map[string]formatter) *formatterValue {
	v := &formatterValue{formatters: formatters}
	if err := v.Set(initial); err != nil {
		panic(err)
	}
	return v
}

// Set is part of gnuflag.Value.
func (v *formatterValue) Set(value string) error {
	if v.formatters[value] == nil {
		return errors.NotValidf("format %q (choose from %s)", value, v.names())
	}
	v.name = value
	return nil
}

// String is part of gnuflag.Value.
func (v *formatterValue) String() string {
	return v.name
}

func (v *formatterValue) names() string {
	var names []string
	for name := range v.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func (v *formatterValue) format(value interface{}) ([]byte, error) {
	return v.formatters[v.name](value)
}
