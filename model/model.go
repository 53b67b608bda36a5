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
Package model contains the supergraph entity model.

Fragments, vertices, ports and groups are materialized as graph nodes
connected by typed relationships:

	Fragment -CONTAINS_ENTITY-> Vertex / Group     (scope ownership)
	Group    -CONTAINS_ITEM->   Vertex / Group     (hierarchical grouping)
	Vertex   -HAS_PORT->        Port               (generic port relation)
	Vertex   -IN-> / -OUT->     Port               (direction specific relation)
	Port     -Edge->            Port               (the neighbor relation)

Every entity carries a store-assigned uid in addition to the client
supplied primitive id. The primitive id doubles as the node key so
merges can look entities up directly.

Cascading deletes are expressed as an explicit worklist in dependency
order - ports before vertices before groups before the fragment - and
run inside a single store transaction. Relationship cleanup for removed
nodes is left to the store's relationship-delete semantics.
*/
package model

import (
	"encoding/json"
	"fmt"
	"sort"

	"devt.de/krotik/eliasdb/graph/data"
	"github.com/google/uuid"

	"github.com/pol4/complex-rest-dtcd-supergraph/schema"
)

/*
Attribute names for stored entities.
*/
const (
	AttrUID       = "uid"       // Store-assigned unique identifier
	AttrName      = "name"      // Fragment name
	AttrMeta      = "meta_"     // JSON encoded non-scalar properties
	AttrOwner     = "owner"     // Owning vertex id of a port
	AttrDirection = "direction" // Port direction
)

/*
Relationship end roles.
*/
const (
	RoleContainer = "container"
	RoleItem      = "item"
	RoleNode      = "node"
	RolePort      = "port"
	RoleOut       = "out"
	RoleIn        = "in"
)

/*
MaxNameLength is the maximum length of a fragment name.
*/
const MaxNameLength = 255

/*
Model provides the entity operations of the supergraph on top of a
persistence Gateway.
*/
type Model struct {
	gw   Gateway        // Persistence gateway for all store access
	sch  *schema.Schema // Key registry
	part string         // Graph partition holding the supergraph
}

/*
New creates a new entity model instance.
*/
func New(gw Gateway, sch *schema.Schema, part string) *Model {
	return &Model{gw, sch, part}
}

/*
Gateway returns the persistence gateway of this model.
*/
func (m *Model) Gateway() Gateway {
	return m.gw
}

/*
Partition returns the graph partition of this model.
*/
func (m *Model) Partition() string {
	return m.part
}

// Node construction and record conversion
// =======================================

/*
buildPrimitiveNode builds a graph node for a vertex or group record.
Scalar record properties become node attributes, everything else is
collected into the JSON encoded meta attribute. The client supplied id
is used as the node key; the given uid is preserved across updates.
*/
func (m *Model) buildPrimitiveNode(kind string, id string, uid string,
	rec map[string]interface{}) data.Node {

	node := data.NewGraphNode()
	node.SetAttr(data.NodeKey, id)
	node.SetAttr(data.NodeKind, kind)
	node.SetAttr(AttrUID, uid)
	node.SetAttr(m.sch.Key("yfiles_id"), id)

	meta := make(map[string]interface{})

	for attr, val := range rec {
		if attr == data.NodeKey || attr == data.NodeKind || attr == AttrUID {
			continue
		}

		if isScalar(val) {
			node.SetAttr(attr, val)
		} else if val != nil {
			meta[attr] = val
		}
	}

	if len(meta) > 0 {
		enc, _ := json.Marshal(meta)
		node.SetAttr(AttrMeta, string(enc))
	}

	return node
}

/*
nodeToRecord converts a stored node back into its payload record shape.
Internal attributes are dropped and the meta attribute is expanded back
into the record.
*/
func nodeToRecord(node data.Node) map[string]interface{} {
	ret := make(map[string]interface{})

	for attr, val := range node.Data() {
		if attr == data.NodeKey || attr == data.NodeKind {
			continue
		}
		ret[attr] = val
	}

	if enc, ok := ret[AttrMeta].(string); ok {
		var meta map[string]interface{}

		if err := json.Unmarshal([]byte(enc), &meta); err == nil {
			delete(ret, AttrMeta)

			for attr, val := range meta {
				ret[attr] = val
			}
		}
	}

	return ret
}

/*
edgeToRecord converts a stored neighbor relationship back into its
payload record shape.
*/
func edgeToRecord(edge data.Edge) map[string]interface{} {
	ret := make(map[string]interface{})

	for attr, val := range edge.Data() {
		switch attr {
		case data.NodeKey, data.NodeKind,
			data.EdgeEnd1Key, data.EdgeEnd1Kind, data.EdgeEnd1Role,
			data.EdgeEnd1Cascading, data.EdgeEnd2Key, data.EdgeEnd2Kind,
			data.EdgeEnd2Role, data.EdgeEnd2Cascading:
			continue
		}
		ret[attr] = val
	}

	if enc, ok := ret[AttrMeta].(string); ok {
		var meta map[string]interface{}

		if err := json.Unmarshal([]byte(enc), &meta); err == nil {
			delete(ret, AttrMeta)

			for attr, val := range meta {
				ret[attr] = val
			}
		}
	}

	return ret
}

/*
buildEdge builds a relationship between two stored nodes. Cascading
deletes are never delegated to the store - the model runs its own
worklist.
*/
func buildEdge(key string, kind string, end1Key string, end1Kind string,
	end1Role string, end2Key string, end2Kind string, end2Role string) data.Edge {

	edge := data.NewGraphEdge()

	edge.SetAttr(data.NodeKey, key)
	edge.SetAttr(data.NodeKind, kind)

	edge.SetAttr(data.EdgeEnd1Key, end1Key)
	edge.SetAttr(data.EdgeEnd1Kind, end1Kind)
	edge.SetAttr(data.EdgeEnd1Role, end1Role)
	edge.SetAttr(data.EdgeEnd1Cascading, false)

	edge.SetAttr(data.EdgeEnd2Key, end2Key)
	edge.SetAttr(data.EdgeEnd2Kind, end2Kind)
	edge.SetAttr(data.EdgeEnd2Role, end2Role)
	edge.SetAttr(data.EdgeEnd2Cascading, false)

	return edge
}

/*
isScalar checks if a value can be stored directly as a node attribute.
*/
func isScalar(val interface{}) bool {
	switch val.(type) {
	case string, bool, float64, float32, int, int64, uint64:
		return true
	}
	return false
}

/*
newUID returns a new store-assigned unique identifier.
*/
func newUID() string {
	return uuid.NewString()
}

/*
recordID returns the value of a record field as a comparable id string.
*/
func recordID(rec map[string]interface{}, key string) string {
	return fmt.Sprint(rec[key])
}

/*
sortRecords sorts records in place by a given field.
*/
func sortRecords(recs []map[string]interface{}, key string) {
	sort.Slice(recs, func(i, j int) bool {
		return fmt.Sprint(recs[i][key]) < fmt.Sprint(recs[j][key])
	})
}
