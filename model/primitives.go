/*
 * DTCD SuperGraph
 *
 * Copyright 2022 The SuperGraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"devt.de/krotik/eliasdb/graph"
)

/*
StoreVertex creates or updates a vertex from a payload record inside the
given transaction. The vertex is checked for scope ownership: an existing
vertex owned by a different scope must not be touched. New vertices
created in a fragment scope are connected to the fragment.
*/
func (m *Model) StoreVertex(tx graph.Trans, frag string, rec map[string]interface{}) error {
	return m.storePrimitive(tx, frag, m.sch.Label("node"), rec)
}

/*
StoreGroup creates or updates a group from a payload record inside the
given transaction. Groups follow the same identity and scope rules as
vertices.
*/
func (m *Model) StoreGroup(tx graph.Trans, frag string, rec map[string]interface{}) error {
	return m.storePrimitive(tx, frag, m.sch.Label("group"), rec)
}

/*
storePrimitive creates or updates a vertex or group node and maintains
its containment and grouping relationships.
*/
func (m *Model) storePrimitive(tx graph.Trans, frag string, kind string,
	rec map[string]interface{}) error {

	id := recordID(rec, m.sch.Key("yfiles_id"))

	uid, err := m.checkScope(kind, id, frag)
	if err != nil {
		return err
	}

	if uid == "" {
		uid = newUID()
	}

	if err := tx.StoreNode(m.part, m.buildPrimitiveNode(kind, id, uid, rec)); err != nil {
		return err
	}

	// Connect the entity to its owning fragment - the edge key makes
	// this idempotent for re-submitted entities

	if frag != "" {
		edge := buildEdge(containmentKey(frag, kind, id), m.sch.Type("contains_entity"),
			frag, m.sch.Label("fragment"), RoleContainer, id, kind, RoleItem)

		if err := tx.StoreEdge(m.part, edge); err != nil {
			return err
		}
	}

	// Persist the declared grouping as a relationship from the parent group

	parentKey := m.sch.Key("parent_id")

	if parent, ok := rec[parentKey]; ok && parent != nil {
		parentID := recordID(rec, parentKey)
		groupKind := m.sch.Label("group")

		edge := buildEdge(containmentKey(parentID, kind, id), m.sch.Type("contains_item"),
			parentID, groupKind, RoleContainer, id, kind, RoleItem)

		if err := tx.StoreEdge(m.part, edge); err != nil {
			return err
		}
	}

	return nil
}

/*
StorePort creates or updates a port of a vertex inside the given
transaction. The port is connected to its vertex through the generic
port relation and through the direction specific relation - both views
are written together so they cannot drift apart.
*/
func (m *Model) StorePort(tx graph.Trans, vertexID string, portID string,
	direction string) (string, error) {

	kind := m.sch.Label("port")
	vertexKind := m.sch.Label("node")
	key := portKey(vertexID, portID)

	uid := ""

	if existing, err := m.gw.FetchNode(m.part, key, kind); err != nil {
		return "", err
	} else if existing != nil {
		uid, _ = existing.Attr(AttrUID).(string)
	}

	if uid == "" {
		uid = newUID()
	}

	dirKind := m.sch.Type(direction)

	node := m.buildPrimitiveNode(kind, key, uid, nil)
	node.SetAttr(m.sch.Key("yfiles_id"), portID)
	node.SetAttr(AttrOwner, vertexID)
	node.SetAttr(AttrDirection, dirKind)

	if err := tx.StoreNode(m.part, node); err != nil {
		return "", err
	}

	// A direction change must not leave the previous directed relation
	// behind - removing a relation which does not exist is a no-op

	opposite := "in"
	if direction == "in" {
		opposite = "out"
	}

	if err := tx.RemoveEdge(m.part, key, m.sch.Type(opposite)); err != nil {
		return "", err
	}

	generic := buildEdge(key, m.sch.Type("has_port"),
		vertexID, vertexKind, RoleNode, key, kind, RolePort)

	if err := tx.StoreEdge(m.part, generic); err != nil {
		return "", err
	}

	directed := buildEdge(key, dirKind,
		vertexID, vertexKind, RoleNode, key, kind, RolePort)

	if err := tx.StoreEdge(m.part, directed); err != nil {
		return "", err
	}

	return key, nil
}

/*
PortAssignments records which neighbor relationship each port was wired
into while a transaction is being built. Relationships buffered in a
transaction are invisible to store reads until commit, so the tracker is
the only place where two connections competing for the same port inside
one transaction can be detected.
*/
type PortAssignments map[string]string

/*
ConnectPorts establishes the neighbor relationship for an edge record
inside the given transaction. The source port becomes an output port of
the source vertex, the target port an input port of the target vertex.
A port connects to at most one other port: an already persisted neighbor
relationship of either port is replaced, while a port claimed by an
earlier connection of the same transaction is a cardinality violation
which aborts the whole transaction.
*/
func (m *Model) ConnectPorts(tx graph.Trans, assigned PortAssignments,
	rec map[string]interface{}) error {
	srcNodeKey := m.sch.Key("source_node")
	tgtNodeKey := m.sch.Key("target_node")
	srcPortKey := m.sch.Key("source_port")
	tgtPortKey := m.sch.Key("target_port")

	srcNode := recordID(rec, srcNodeKey)
	tgtNode := recordID(rec, tgtNodeKey)
	srcPort := recordID(rec, srcPortKey)
	tgtPort := recordID(rec, tgtPortKey)

	edgeKind := m.sch.Label("edge")
	key := strings.Join([]string{srcNode, srcPort, tgtNode, tgtPort}, keySep)

	// A port wired into a different connection earlier in this
	// transaction cannot also take this one

	for _, end := range []struct {
		vertex, port string
	}{{srcNode, srcPort}, {tgtNode, tgtPort}} {

		pk := portKey(end.vertex, end.port)

		if prev, ok := assigned[pk]; ok && prev != key {
			return NewError(ErrCardinality,
				fmt.Sprintf("port %v of %v", end.port, end.vertex))
		}

		assigned[pk] = key
	}

	srcKey, err := m.StorePort(tx, srcNode, srcPort, "out")
	if err != nil {
		return err
	}

	tgtKey, err := m.StorePort(tx, tgtNode, tgtPort, "in")
	if err != nil {
		return err
	}

	// Replace any already persisted neighbor relationship of either port

	for _, pk := range []string{srcKey, tgtKey} {
		neighbors, err := m.portNeighborEdges(pk)
		if err != nil {
			return err
		}

		for _, ekey := range neighbors {
			if ekey != key {
				if err := tx.RemoveEdge(m.part, ekey, edgeKind); err != nil {
					return err
				}
			}
		}
	}

	portKind := m.sch.Label("port")

	edge := buildEdge(key, edgeKind, srcKey, portKind, RoleOut, tgtKey, portKind, RoleIn)

	meta := make(map[string]interface{})

	for attr, val := range rec {
		if isScalar(val) {
			edge.SetAttr(attr, val)
		} else if val != nil {
			meta[attr] = val
		}
	}

	if len(meta) > 0 {
		enc, _ := json.Marshal(meta)
		edge.SetAttr(AttrMeta, string(enc))
	}

	return tx.StoreEdge(m.part, edge)
}

/*
checkScope checks that an entity may be written in the given scope. It
returns the store-assigned uid of an existing entity or an empty string
for a new one. An entity owned by a different fragment or by the root
scope is a scope violation.
*/
func (m *Model) checkScope(kind string, key string, frag string) (string, error) {
	node, err := m.gw.FetchNode(m.part, key, kind)
	if err != nil || node == nil {
		return "", err
	}

	owner, err := m.ContainerOf(kind, key)
	if err != nil {
		return "", err
	}

	if owner != frag {
		return "", NewError(ErrScopeViolation, key)
	}

	uid, _ := node.Attr(AttrUID).(string)

	return uid, nil
}

/*
ContainerOf returns the key of the fragment containing the given entity
or an empty string if the entity belongs to the root scope.
*/
func (m *Model) ContainerOf(kind string, key string) (string, error) {
	spec := fmt.Sprintf("%v:%v:%v:%v", RoleItem, m.sch.Type("contains_entity"),
		RoleContainer, m.sch.Label("fragment"))

	containers, _, err := m.gw.Traverse(m.part, key, kind, spec)
	if err != nil || len(containers) == 0 {
		return "", err
	}

	return containers[0].Key(), nil
}

/*
Contained returns the keys of all vertices and groups contained by a
fragment.
*/
func (m *Model) Contained(frag string) ([]string, []string, error) {
	fragKind := m.sch.Label("fragment")

	collect := func(kind string) ([]string, error) {
		spec := fmt.Sprintf("%v:%v:%v:%v", RoleContainer,
			m.sch.Type("contains_entity"), RoleItem, kind)

		nodes, _, err := m.gw.Traverse(m.part, frag, fragKind, spec)
		if err != nil {
			return nil, err
		}

		ret := make([]string, 0, len(nodes))
		for _, node := range nodes {
			ret = append(ret, node.Key())
		}

		return ret, nil
	}

	vertices, err := collect(m.sch.Label("node"))
	if err != nil {
		return nil, nil, err
	}

	groups, err := collect(m.sch.Label("group"))
	if err != nil {
		return nil, nil, err
	}

	return vertices, groups, nil
}

/*
VertexPorts returns the keys of all ports owned by a vertex regardless
of direction.
*/
func (m *Model) VertexPorts(vertexID string) ([]string, error) {
	spec := fmt.Sprintf("%v:%v:%v:%v", RoleNode, m.sch.Type("has_port"),
		RolePort, m.sch.Label("port"))

	ports, _, err := m.gw.Traverse(m.part, vertexID, m.sch.Label("node"), spec)
	if err != nil {
		return nil, err
	}

	ret := make([]string, 0, len(ports))
	for _, port := range ports {
		ret = append(ret, port.Key())
	}

	return ret, nil
}

/*
portNeighborEdges returns the keys of all neighbor relationships of a
port, regardless of which end the port is on.
*/
func (m *Model) portNeighborEdges(portKey string) ([]string, error) {
	portKind := m.sch.Label("port")
	edgeKind := m.sch.Label("edge")

	var ret []string

	for _, spec := range []string{
		fmt.Sprintf("%v:%v:%v:%v", RoleOut, edgeKind, RoleIn, portKind),
		fmt.Sprintf("%v:%v:%v:%v", RoleIn, edgeKind, RoleOut, portKind),
	} {
		_, edges, err := m.gw.Traverse(m.part, portKey, portKind, spec)
		if err != nil {
			return nil, err
		}

		for _, edge := range edges {
			ret = append(ret, edge.Key())
		}
	}

	return ret, nil
}

/*
keySep separates the components of composed storage keys. Client
supplied ids may contain any printable character, so a non-printable
separator keeps distinct component tuples from producing the same key.
*/
const keySep = "\x1f"

/*
portKey returns the storage key of a port.
*/
func portKey(vertexID string, portID string) string {
	return vertexID + keySep + portID
}

/*
containmentKey returns the storage key of a containment relationship.
*/
func containmentKey(container string, childKind string, childKey string) string {
	return container + keySep + childKind + keySep + childKey
}
