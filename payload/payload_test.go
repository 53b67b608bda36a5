/*
 * DTCD SuperGraph
 *
 * Copyright 2022 The SuperGraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package payload

import (
	"encoding/json"
	"testing"

	"github.com/pol4/complex-rest-dtcd-supergraph/schema"
)

/*
decodeJSON decodes a JSON payload literal for tests.
*/
func decodeJSON(t *testing.T, src string) map[string]interface{} {
	var ret map[string]interface{}

	if err := json.Unmarshal([]byte(src), &ret); err != nil {
		t.Fatal(err)
	}

	return ret
}

func TestDecode(t *testing.T) {
	sch := schema.Default()

	raw := decodeJSON(t, `{
		"nodes" : [
			{ "primitiveID" : "n1", "weight" : 42 },
			{ "primitiveID" : "n2" }
		],
		"edges" : [
			{ "sourceNode" : "n1", "sourcePort" : "p1",
			  "targetNode" : "n2", "targetPort" : "p2" }
		],
		"groups" : [
			{ "primitiveID" : "g1" }
		]
	}`)

	p, err := Decode(sch, raw)
	if err != nil {
		t.Error(err)
		return
	}

	if len(p.Nodes) != 2 || len(p.Edges) != 1 || len(p.Groups) != 1 {
		t.Error("Unexpected payload:", p)
		return
	}

	if res := EdgeTuple(sch, p.Edges[0]); res != "n1"+tupleSep+"p1"+tupleSep+"n2"+tupleSep+"p2" {
		t.Error("Unexpected edge tuple:", res)
		return
	}

	// Groups and edges are optional

	p, err = Decode(sch, decodeJSON(t, `{
		"nodes" : [ { "primitiveID" : "n1" } ]
	}`))

	if err != nil || len(p.Edges) != 0 || len(p.Groups) != 0 {
		t.Error("Unexpected result:", p, err)
		return
	}
}

func TestDecodeErrors(t *testing.T) {
	sch := schema.Default()

	// An empty payload is missing the nodes container

	if _, err := Decode(sch, decodeJSON(t, `{}`)); err == nil ||
		err.Error() != "PayloadError: Missing key (nodes)" {
		t.Error("Unexpected result:", err)
		return
	}

	// An empty node list is also an error

	if _, err := Decode(sch, decodeJSON(t, `{ "nodes" : [] }`)); err == nil ||
		err.Error() != "PayloadError: Missing key (nodes)" {
		t.Error("Unexpected result:", err)
		return
	}

	// A node record without an id

	if _, err := Decode(sch, decodeJSON(t, `{
		"nodes" : [ { "name" : "node without id" } ]
	}`)); err == nil || err.Error() != "PayloadError: Missing key (primitiveID)" {
		t.Error("Unexpected result:", err)
		return
	}

	// An edge record missing one of the four endpoint fields

	if _, err := Decode(sch, decodeJSON(t, `{
		"nodes" : [ { "primitiveID" : "n1" } ],
		"edges" : [ { "sourceNode" : "n1", "sourcePort" : "p1",
			"targetNode" : "n1" } ]
	}`)); err == nil || err.Error() != "PayloadError: Missing key (targetPort)" {
		t.Error("Unexpected result:", err)
		return
	}

	// A group record without an id

	if _, err := Decode(sch, decodeJSON(t, `{
		"nodes"  : [ { "primitiveID" : "n1" } ],
		"groups" : [ { "name" : "group without id" } ]
	}`)); err == nil || err.Error() != "PayloadError: Missing key (primitiveID)" {
		t.Error("Unexpected result:", err)
		return
	}

	// A container which is not a list

	if _, err := Decode(sch, decodeJSON(t, `{
		"nodes" : { "primitiveID" : "n1" }
	}`)); err == nil || err.Error() != "PayloadError: Missing key (nodes)" {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestValidate(t *testing.T) {
	sch := schema.Default()

	decode := func(src string) *Payload {
		p, err := Decode(sch, decodeJSON(t, src))
		if err != nil {
			t.Fatal(err)
		}
		return p
	}

	// A well-formed payload passes

	if err := Validate(sch, decode(`{
		"nodes" : [
			{ "primitiveID" : "n1", "parentID" : "g1" },
			{ "primitiveID" : "n2" }
		],
		"edges" : [
			{ "sourceNode" : "n1", "sourcePort" : "p1",
			  "targetNode" : "n2", "targetPort" : "p2" }
		],
		"groups" : [
			{ "primitiveID" : "g1", "parentID" : "g2" },
			{ "primitiveID" : "g2" }
		]
	}`)); err != nil {
		t.Error(err)
		return
	}

	// Duplicated node ids

	if err := Validate(sch, decode(`{
		"nodes" : [ { "primitiveID" : "n1" }, { "primitiveID" : "n1" } ]
	}`)); err == nil || err.Error() != "PayloadError: Not unique" {
		t.Error("Unexpected result:", err)
		return
	}

	// Duplicated edge tuples

	if err := Validate(sch, decode(`{
		"nodes" : [ { "primitiveID" : "n1" }, { "primitiveID" : "n2" } ],
		"edges" : [
			{ "sourceNode" : "n1", "sourcePort" : "p1",
			  "targetNode" : "n2", "targetPort" : "p2" },
			{ "sourceNode" : "n1", "sourcePort" : "p1",
			  "targetNode" : "n2", "targetPort" : "p2" }
		]
	}`)); err == nil || err.Error() != "PayloadError: Not unique" {
		t.Error("Unexpected result:", err)
		return
	}

	// Duplicated group ids

	if err := Validate(sch, decode(`{
		"nodes"  : [ { "primitiveID" : "n1" } ],
		"groups" : [ { "primitiveID" : "g1" }, { "primitiveID" : "g1" } ]
	}`)); err == nil || err.Error() != "PayloadError: Not unique" {
		t.Error("Unexpected result:", err)
		return
	}

	// A group declaring itself as its parent

	if err := Validate(sch, decode(`{
		"nodes"  : [ { "primitiveID" : "n1" } ],
		"groups" : [ { "primitiveID" : "g1", "parentID" : "g1" } ]
	}`)); err == nil || err.Error() != "PayloadError: Self reference (g1)" {
		t.Error("Unexpected result:", err)
		return
	}

	// An edge endpoint which is not a submitted node

	if err := Validate(sch, decode(`{
		"nodes" : [ { "primitiveID" : "n1" } ],
		"edges" : [
			{ "sourceNode" : "n1", "sourcePort" : "p1",
			  "targetNode" : "x", "targetPort" : "p2" }
		]
	}`)); err == nil || err.Error() != "PayloadError: Does not exist (x)" {
		t.Error("Unexpected result:", err)
		return
	}

	// A parent id which is not a submitted group

	if err := Validate(sch, decode(`{
		"nodes" : [ { "primitiveID" : "n1", "parentID" : "g9" } ]
	}`)); err == nil || err.Error() != "PayloadError: Does not exist (g9)" {
		t.Error("Unexpected result:", err)
		return
	}

	// A null parent id is treated as no parent

	if err := Validate(sch, decode(`{
		"nodes"  : [ { "primitiveID" : "n1", "parentID" : null } ],
		"groups" : [ { "primitiveID" : "g1", "parentID" : null } ]
	}`)); err != nil {
		t.Error(err)
		return
	}

	// A node id may collide with a group id - uniqueness is per collection

	if err := Validate(sch, decode(`{
		"nodes"  : [ { "primitiveID" : "x1" } ],
		"groups" : [ { "primitiveID" : "x1" } ]
	}`)); err != nil {
		t.Error(err)
		return
	}

	// Ids containing the path character do not make distinct edge
	// tuples compare as equal

	if err := Validate(sch, decode(`{
		"nodes" : [
			{ "primitiveID" : "a" },
			{ "primitiveID" : "a/b" },
			{ "primitiveID" : "x" }
		],
		"edges" : [
			{ "sourceNode" : "a", "sourcePort" : "b/c",
			  "targetNode" : "x", "targetPort" : "p1" },
			{ "sourceNode" : "a/b", "sourcePort" : "c",
			  "targetNode" : "x", "targetPort" : "p2" }
		]
	}`)); err != nil {
		t.Error(err)
		return
	}
}
