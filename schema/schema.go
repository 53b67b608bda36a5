/*
 * DTCD SuperGraph
 *
 * Copyright 2022 The SuperGraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package schema contains the key registry for the supergraph data design.

The registry maps symbolic names to the field keys used to read a graph
payload, to the node kinds used when materializing entities and to the
relationship kinds which connect them. It is pure configuration - the
validator and the entity model consume it and never hardcode wire keys.

Two schema definitions exist: the serialization schema for internal data
design and the exchange schema for the client payload format. They are
merged into a single flat registry at startup. A name collision between
the two definitions is a configuration error and fatal.
*/
package schema

import (
	"fmt"

	"devt.de/krotik/common/errorutil"
)

/*
Definition groups the name mappings of one schema.
*/
type Definition struct {
	Keys   map[string]string // Payload field keys
	Labels map[string]string // Node kinds
	Types  map[string]string // Relationship kinds
}

/*
SerializationDefinition holds the names of the internal data design.
*/
var SerializationDefinition = &Definition{
	Keys: map[string]string{
		"parent_key": "key",
		"position":   "pos",
	},
	Labels: map[string]string{
		"fragment": "Fragment",
		"port":     "Port",
	},
	Types: map[string]string{
		"contains_item":   "CONTAINS_ITEM",
		"contains_entity": "CONTAINS_ENTITY",
		"has_port":        "HAS_PORT",
	},
}

/*
ExchangeDefinition holds the names of the client exchange format. The key
values are a compatibility surface with existing clients and must not change.
*/
var ExchangeDefinition = &Definition{
	Keys: map[string]string{
		"edges":       "edges",
		"groups":      "groups",
		"nodes":       "nodes",
		"parent_id":   "parentID",
		"source_node": "sourceNode",
		"source_port": "sourcePort",
		"target_node": "targetNode",
		"target_port": "targetPort",
		"yfiles_id":   "primitiveID",
	},
	Labels: map[string]string{
		"edge":  "Edge",
		"group": "Group",
		"node":  "Node",
	},
	Types: map[string]string{
		"in":  "IN",
		"out": "OUT",
	},
}

/*
Schema is a merged, immutable registry of names.
*/
type Schema struct {
	keys   map[string]string
	labels map[string]string
	types  map[string]string
}

/*
Merge merges the given schema definitions into one flat registry. A name
which appears in more than one definition is a configuration error.
*/
func Merge(defs ...*Definition) (*Schema, error) {
	ret := &Schema{
		keys:   make(map[string]string),
		labels: make(map[string]string),
		types:  make(map[string]string),
	}

	mergeMap := func(section string, dst map[string]string, src map[string]string) error {
		for name, val := range src {
			if _, ok := dst[name]; ok {
				return fmt.Errorf("Schema %v collision on name: %v", section, name)
			}
			dst[name] = val
		}
		return nil
	}

	for _, def := range defs {
		if err := mergeMap("key", ret.keys, def.Keys); err != nil {
			return nil, err
		}
		if err := mergeMap("label", ret.labels, def.Labels); err != nil {
			return nil, err
		}
		if err := mergeMap("type", ret.types, def.Types); err != nil {
			return nil, err
		}
	}

	return ret, nil
}

/*
MustMerge merges the given schema definitions and panics on a collision.
*/
func MustMerge(defs ...*Definition) *Schema {
	ret, err := Merge(defs...)
	errorutil.AssertOk(err)
	return ret
}

/*
Key returns a payload field key by name.
*/
func (s *Schema) Key(name string) string {
	val, ok := s.keys[name]
	errorutil.AssertTrue(ok, fmt.Sprintf("Unknown schema key name: %v", name))
	return val
}

/*
Label returns a node kind by name.
*/
func (s *Schema) Label(name string) string {
	val, ok := s.labels[name]
	errorutil.AssertTrue(ok, fmt.Sprintf("Unknown schema label name: %v", name))
	return val
}

/*
Type returns a relationship kind by name.
*/
func (s *Schema) Type(name string) string {
	val, ok := s.types[name]
	errorutil.AssertTrue(ok, fmt.Sprintf("Unknown schema type name: %v", name))
	return val
}

/*
defaultSchema is the registry built from the builtin definitions.
*/
var defaultSchema = MustMerge(SerializationDefinition, ExchangeDefinition)

/*
Default returns the registry built from the builtin serialization and
exchange definitions.
*/
func Default() *Schema {
	return defaultSchema
}
