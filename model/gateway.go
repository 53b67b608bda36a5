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
	"devt.de/krotik/eliasdb/graph"
	"devt.de/krotik/eliasdb/graph/data"
)

/*
Gateway is the persistence capability the entity model requires from the
underlying graph store. Reads operate on committed state. All writes go
through a transaction created with NewTrans - nothing is visible until
the transaction commits and a failing commit leaves the store unchanged.
*/
type Gateway interface {

	/*
		FetchNode fetches a single node. A nonexistent node yields a nil
		node and no error.
	*/
	FetchNode(part string, key string, kind string) (data.Node, error)

	/*
		Traverse traverses from a given node via a full spec of the form
		role:kind:role:kind and returns the reached nodes and the
		relationships which reached them.
	*/
	Traverse(part string, key string, kind string, spec string) ([]data.Node, []data.Edge, error)

	/*
		NodeKeys returns the keys of all nodes of a given kind.
	*/
	NodeKeys(part string, kind string) ([]string, error)

	/*
		NewTrans returns a new store transaction.
	*/
	NewTrans() graph.Trans
}

/*
managerGateway implements Gateway on top of an EliasDB graph.Manager.
*/
type managerGateway struct {
	gm *graph.Manager
}

/*
NewGateway wraps an EliasDB graph.Manager as a persistence Gateway.
*/
func NewGateway(gm *graph.Manager) Gateway {
	return &managerGateway{gm}
}

/*
FetchNode fetches a single node.
*/
func (mg *managerGateway) FetchNode(part string, key string, kind string) (data.Node, error) {
	return mg.gm.FetchNode(part, key, kind)
}

/*
Traverse traverses from a given node via a full spec.
*/
func (mg *managerGateway) Traverse(part string, key string, kind string, spec string) ([]data.Node, []data.Edge, error) {
	return mg.gm.Traverse(part, key, kind, spec, true)
}

/*
NodeKeys returns the keys of all nodes of a given kind.
*/
func (mg *managerGateway) NodeKeys(part string, kind string) ([]string, error) {
	it, err := mg.gm.NodeKeyIterator(part, kind)
	if err != nil || it == nil {
		return nil, err
	}

	var ret []string

	for it.HasNext() {
		key := it.Next()

		if it.LastError != nil {
			return nil, it.LastError
		}

		ret = append(ret, key)
	}

	return ret, nil
}

/*
NewTrans returns a new store transaction.
*/
func (mg *managerGateway) NewTrans() graph.Trans {
	return graph.NewGraphTrans(mg.gm)
}
