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
	"fmt"
	"sort"

	"devt.de/krotik/eliasdb/graph/data"
)

/*
ScopeRecords returns the persisted graph view of a scope in payload
shape - vertex records, edge records and group records. An empty
fragment key addresses the root scope which holds every entity not
contained by a fragment.
*/
func (m *Model) ScopeRecords(frag string) ([]map[string]interface{},
	[]map[string]interface{}, []map[string]interface{}, error) {

	idKey := m.sch.Key("yfiles_id")

	vertexKeys, groupKeys, err := m.scopeKeys(frag)
	if err != nil {
		return nil, nil, nil, err
	}

	nodes, err := m.fetchRecords(vertexKeys, m.sch.Label("node"))
	if err != nil {
		return nil, nil, nil, err
	}

	groups, err := m.fetchRecords(groupKeys, m.sch.Label("group"))
	if err != nil {
		return nil, nil, nil, err
	}

	edges, err := m.edgeRecords(vertexKeys)
	if err != nil {
		return nil, nil, nil, err
	}

	sortRecords(nodes, idKey)
	sortRecords(groups, idKey)

	return nodes, edges, groups, nil
}

/*
scopeKeys returns the vertex and group keys of a scope.
*/
func (m *Model) scopeKeys(frag string) ([]string, []string, error) {
	if frag != "" {
		return m.Contained(frag)
	}

	// The root scope holds the entities which no fragment contains

	rootOnly := func(kind string, keys []string) ([]string, error) {
		var ret []string

		for _, key := range keys {
			owner, err := m.ContainerOf(kind, key)
			if err != nil {
				return nil, err
			}

			if owner == "" {
				ret = append(ret, key)
			}
		}

		return ret, nil
	}

	vertexKeys, err := m.gw.NodeKeys(m.part, m.sch.Label("node"))
	if err != nil {
		return nil, nil, err
	}

	if vertexKeys, err = rootOnly(m.sch.Label("node"), vertexKeys); err != nil {
		return nil, nil, err
	}

	groupKeys, err := m.gw.NodeKeys(m.part, m.sch.Label("group"))
	if err != nil {
		return nil, nil, err
	}

	if groupKeys, err = rootOnly(m.sch.Label("group"), groupKeys); err != nil {
		return nil, nil, err
	}

	return vertexKeys, groupKeys, nil
}

/*
fetchRecords fetches a list of nodes and converts them to payload
records.
*/
func (m *Model) fetchRecords(keys []string, kind string) ([]map[string]interface{}, error) {
	ret := make([]map[string]interface{}, 0, len(keys))

	for _, key := range keys {
		node, err := m.gw.FetchNode(m.part, key, kind)
		if err != nil {
			return nil, err
		}

		if node != nil {
			ret = append(ret, nodeToRecord(node))
		}
	}

	return ret, nil
}

/*
edgeRecords collects the neighbor relationships of all ports owned by
the given vertices. Only the output side is traversed so every edge is
reported once.
*/
func (m *Model) edgeRecords(vertexKeys []string) ([]map[string]interface{}, error) {
	portKind := m.sch.Label("port")
	edgeKind := m.sch.Label("edge")
	spec := fmt.Sprintf("%v:%v:%v:%v", RoleOut, edgeKind, RoleIn, portKind)

	ret := make([]map[string]interface{}, 0)

	var collected []data.Edge

	for _, vertex := range vertexKeys {
		ports, err := m.VertexPorts(vertex)
		if err != nil {
			return nil, err
		}

		for _, port := range ports {
			_, edges, err := m.gw.Traverse(m.part, port, portKind, spec)
			if err != nil {
				return nil, err
			}

			collected = append(collected, edges...)
		}
	}

	for _, edge := range collected {
		ret = append(ret, edgeToRecord(edge))
	}

	tupleKey := func(rec map[string]interface{}) string {
		return fmt.Sprint(rec[m.sch.Key("source_node")], keySep, rec[m.sch.Key("source_port")],
			keySep, rec[m.sch.Key("target_node")], keySep, rec[m.sch.Key("target_port")])
	}

	sort.Slice(ret, func(i, j int) bool {
		return tupleKey(ret[i]) < tupleKey(ret[j])
	})

	return ret, nil
}
