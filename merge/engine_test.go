/*
 * DTCD SuperGraph
 *
 * Copyright 2022 The SuperGraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package merge

import (
	"encoding/json"
	"fmt"
	"testing"

	"devt.de/krotik/eliasdb/graph"
	"devt.de/krotik/eliasdb/graph/graphstorage"

	"github.com/pol4/complex-rest-dtcd-supergraph/model"
	"github.com/pol4/complex-rest-dtcd-supergraph/schema"
)

/*
newTestEngine creates a merge engine on a fresh memory-only store.
*/
func newTestEngine() (*Engine, *model.Model) {
	gs := graphstorage.NewMemoryGraphStorage("test")
	gm := graph.NewGraphManager(gs)
	sch := schema.Default()
	m := model.New(model.NewGateway(gm), sch, "main")

	return NewEngine(m, sch), m
}

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

const testPayload = `{
	"nodes" : [
		{ "primitiveID" : "n1", "weight" : 11 },
		{ "primitiveID" : "n2", "parentID" : "g1" }
	],
	"edges" : [
		{ "sourceNode" : "n1", "sourcePort" : "p1",
		  "targetNode" : "n2", "targetPort" : "p2" }
	],
	"groups" : [
		{ "primitiveID" : "g1" }
	]
}`

func TestMergeAndRetrieve(t *testing.T) {
	e, _ := newTestEngine()

	res, err := e.Merge(Root(), decodeJSON(t, testPayload))
	if err != nil {
		t.Error(err)
		return
	}

	nodes := res["nodes"].([]map[string]interface{})
	edges := res["edges"].([]map[string]interface{})
	groups := res["groups"].([]map[string]interface{})

	if len(nodes) != 2 || len(edges) != 1 || len(groups) != 1 {
		t.Error("Unexpected result:", res)
		return
	}

	// Retrieve returns the same view

	res2, err := e.Retrieve(Root())
	if err != nil || fmt.Sprint(res2) != fmt.Sprint(res) {
		t.Error("Unexpected result:", res2, err)
		return
	}
}

func TestMergeIdempotence(t *testing.T) {
	e, _ := newTestEngine()

	res1, err := e.Merge(Root(), decodeJSON(t, testPayload))
	if err != nil {
		t.Error(err)
		return
	}

	// Merging the same payload again yields an identical view - entities
	// are updated, not duplicated, and uids are preserved

	res2, err := e.Merge(Root(), decodeJSON(t, testPayload))
	if err != nil {
		t.Error(err)
		return
	}

	if fmt.Sprint(res1) != fmt.Sprint(res2) {
		t.Error("Merge should be idempotent:", res1, res2)
		return
	}
}

func TestMergeValidation(t *testing.T) {
	e, _ := newTestEngine()

	// An invalid payload leaves no trace in the store

	if _, err := e.Merge(Root(), decodeJSON(t, `{
		"nodes" : [ { "primitiveID" : "n1" }, { "primitiveID" : "n1" } ]
	}`)); err == nil || err.Error() != "PayloadError: Not unique" {
		t.Error("Unexpected result:", err)
		return
	}

	res, err := e.Retrieve(Root())
	if err != nil || len(res["nodes"].([]map[string]interface{})) != 0 {
		t.Error("Store should be unchanged:", res, err)
		return
	}

	// Structural errors surface the same way

	if _, err := e.Merge(Root(), decodeJSON(t, `{}`)); err == nil ||
		err.Error() != "PayloadError: Missing key (nodes)" {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestMergeSharedPort(t *testing.T) {
	e, _ := newTestEngine()

	// Two edges competing for the same source port - a port connects to
	// at most one other port, so the merge must abort as a whole

	if _, err := e.Merge(Root(), decodeJSON(t, `{
		"nodes" : [
			{ "primitiveID" : "n1" },
			{ "primitiveID" : "n2" },
			{ "primitiveID" : "n3" }
		],
		"edges" : [
			{ "sourceNode" : "n1", "sourcePort" : "p1",
			  "targetNode" : "n2", "targetPort" : "p2" },
			{ "sourceNode" : "n1", "sourcePort" : "p1",
			  "targetNode" : "n3", "targetPort" : "p3" }
		]
	}`)); err == nil || err.Error() != "ModelError: Cardinality violation (port p1 of n1)" {
		t.Error("Unexpected result:", err)
		return
	}

	// Neither the nodes nor either of the edges were persisted

	res, err := e.Retrieve(Root())
	if err != nil || len(res["nodes"].([]map[string]interface{})) != 0 ||
		len(res["edges"].([]map[string]interface{})) != 0 {
		t.Error("Store should be unchanged:", res, err)
		return
	}
}

func TestMergeScopes(t *testing.T) {
	e, m := newTestEngine()

	fragA, err := m.CreateFragment("a")
	if err != nil {
		t.Fatal(err)
	}

	fragB, err := m.CreateFragment("b")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.Merge(FragmentScope(fragA.Key), decodeJSON(t, testPayload)); err != nil {
		t.Error(err)
		return
	}

	// The content is only visible inside fragment a

	res, err := e.Retrieve(FragmentScope(fragA.Key))
	if err != nil || len(res["nodes"].([]map[string]interface{})) != 2 {
		t.Error("Unexpected result:", res, err)
		return
	}

	res, err = e.Retrieve(FragmentScope(fragB.Key))
	if err != nil || len(res["nodes"].([]map[string]interface{})) != 0 {
		t.Error("Unexpected result:", res, err)
		return
	}

	res, err = e.Retrieve(Root())
	if err != nil || len(res["nodes"].([]map[string]interface{})) != 0 {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Writing the same ids from another scope is rejected

	if _, err := e.Merge(FragmentScope(fragB.Key), decodeJSON(t, testPayload)); err == nil ||
		err.Error() != "ModelError: Scope violation (n1)" {
		t.Error("Unexpected result:", err)
		return
	}

	// An unknown fragment cannot be addressed at all

	if _, err := e.Merge(FragmentScope("missing"), decodeJSON(t, testPayload)); !model.IsNotFound(err) {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := e.Retrieve(FragmentScope("missing")); !model.IsNotFound(err) {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestDelete(t *testing.T) {
	e, m := newTestEngine()

	frag, err := m.CreateFragment("a")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := e.Merge(FragmentScope(frag.Key), decodeJSON(t, testPayload)); err != nil {
		t.Fatal(err)
	}

	if _, err := e.Merge(Root(), decodeJSON(t, `{
		"nodes" : [ { "primitiveID" : "r1" } ]
	}`)); err != nil {
		t.Fatal(err)
	}

	// Deleting the root scope requires cascade

	if err := e.Delete(Root(), false); err == nil ||
		err.Error() != "ModelError: Invalid operation (deleting the root scope requires cascade)" {
		t.Error("Unexpected result:", err)
		return
	}

	// Deleting a fragment only removes its content

	if err := e.Delete(FragmentScope(frag.Key), true); err != nil {
		t.Error(err)
		return
	}

	res, err := e.Retrieve(Root())
	if err != nil || len(res["nodes"].([]map[string]interface{})) != 1 {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Clearing the root scope removes everything

	if err := e.Delete(Root(), true); err != nil {
		t.Error(err)
		return
	}

	res, err = e.Retrieve(Root())
	if err != nil || len(res["nodes"].([]map[string]interface{})) != 0 {
		t.Error("Unexpected result:", res, err)
		return
	}

	if err := e.Delete(FragmentScope("missing"), true); !model.IsNotFound(err) {
		t.Error("Unexpected result:", err)
		return
	}
}
