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

import "devt.de/krotik/eliasdb/graph"

/*
deleteFunc removes an entity of one kind inside a transaction. Cascade
dispatch happens through the function table below instead of virtual
overriding - each kind knows which dependents it removes first.
*/
type deleteFunc func(m *Model, tx graph.Trans, key string, cascade bool) error

/*
deleters maps schema label names to their delete behavior.
*/
var deleters = map[string]deleteFunc{}

func init() {
	deleters["port"] = deletePort
	deleters["node"] = deleteVertex
	deleters["group"] = deleteGroup
}

/*
deletePort removes a port node. The neighbor relationship and the port
relations of the owning vertex are removed implicitly by the store when
the node goes away.
*/
func deletePort(m *Model, tx graph.Trans, key string, cascade bool) error {
	return tx.RemoveNode(m.part, key, m.sch.Label("port"))
}

/*
deleteVertex removes a vertex node. With cascade enabled all ports owned
by the vertex are removed first, in no particular order. Without cascade
only the vertex node is removed - the caller must have detached or
deleted the ports already.
*/
func deleteVertex(m *Model, tx graph.Trans, key string, cascade bool) error {
	if cascade {
		ports, err := m.VertexPorts(key)
		if err != nil {
			return err
		}

		for _, port := range ports {
			if err := deleters["port"](m, tx, port, cascade); err != nil {
				return err
			}
		}
	}

	return tx.RemoveNode(m.part, key, m.sch.Label("node"))
}

/*
deleteGroup removes a group node. Groups have no owned dependents.
*/
func deleteGroup(m *Model, tx graph.Trans, key string, cascade bool) error {
	return tx.RemoveNode(m.part, key, m.sch.Label("group"))
}

/*
DeleteVertex deletes a vertex as one transaction. With cascade enabled
all ports owned by the vertex are deleted first.
*/
func (m *Model) DeleteVertex(key string, cascade bool) error {
	node, err := m.gw.FetchNode(m.part, key, m.sch.Label("node"))
	if err != nil {
		return err
	}

	if node == nil {
		return NewError(ErrNotFound, key)
	}

	tx := m.gw.NewTrans()

	if err := deleters["node"](m, tx, key, cascade); err != nil {
		return err
	}

	return tx.Commit()
}

/*
DeleteFragment deletes a fragment as one transaction. With cascade
enabled the worklist removes all contained entities in dependency
order - ports, then vertices, then groups - before the fragment node
itself. Without cascade only the fragment node is removed and the
contained entities become unreachable through it.
*/
func (m *Model) DeleteFragment(key string, cascade bool) error {
	if _, err := m.FetchFragment(key); err != nil {
		return err
	}

	tx := m.gw.NewTrans()

	if cascade {
		vertices, groups, err := m.Contained(key)
		if err != nil {
			return err
		}

		for _, vertex := range vertices {
			if err := deleters["node"](m, tx, vertex, true); err != nil {
				return err
			}
		}

		for _, group := range groups {
			if err := deleters["group"](m, tx, group, true); err != nil {
				return err
			}
		}
	}

	if err := tx.RemoveNode(m.part, key, m.sch.Label("fragment")); err != nil {
		return err
	}

	return tx.Commit()
}

/*
Clear deletes the entire supergraph content - all ports, vertices,
groups and fragments - as one transaction.
*/
func (m *Model) Clear() error {
	tx := m.gw.NewTrans()

	for _, label := range []string{"port", "node", "group", "fragment"} {
		kind := m.sch.Label(label)

		keys, err := m.gw.NodeKeys(m.part, kind)
		if err != nil {
			return err
		}

		for _, key := range keys {
			if err := tx.RemoveNode(m.part, key, kind); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}
