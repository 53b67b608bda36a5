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
	"sort"

	"devt.de/krotik/eliasdb/graph/data"
)

/*
Fragment is a named partition of the supergraph. Fragments are used to
split the graph into regions for security control and ease of work.
*/
type Fragment struct {
	Key  string // Store-assigned unique identifier
	Name string // Display name
}

/*
CreateFragment creates a new fragment with a store-assigned identifier.
*/
func (m *Model) CreateFragment(name string) (*Fragment, error) {
	if err := checkFragmentName(name); err != nil {
		return nil, err
	}

	key := newUID()

	node := data.NewGraphNode()
	node.SetAttr(data.NodeKey, key)
	node.SetAttr(data.NodeKind, m.sch.Label("fragment"))
	node.SetAttr(AttrUID, key)
	node.SetAttr(AttrName, name)

	tx := m.gw.NewTrans()

	if err := tx.StoreNode(m.part, node); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Fragment{Key: key, Name: name}, nil
}

/*
FetchFragment fetches a fragment by its key.
*/
func (m *Model) FetchFragment(key string) (*Fragment, error) {
	node, err := m.gw.FetchNode(m.part, key, m.sch.Label("fragment"))
	if err != nil {
		return nil, err
	}

	if node == nil {
		return nil, NewError(ErrNotFound, key)
	}

	name, _ := node.Attr(AttrName).(string)

	return &Fragment{Key: key, Name: name}, nil
}

/*
UpdateFragment renames an existing fragment.
*/
func (m *Model) UpdateFragment(key string, name string) (*Fragment, error) {
	if err := checkFragmentName(name); err != nil {
		return nil, err
	}

	if _, err := m.FetchFragment(key); err != nil {
		return nil, err
	}

	node := data.NewGraphNode()
	node.SetAttr(data.NodeKey, key)
	node.SetAttr(data.NodeKind, m.sch.Label("fragment"))
	node.SetAttr(AttrName, name)

	tx := m.gw.NewTrans()

	if err := tx.UpdateNode(m.part, node); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &Fragment{Key: key, Name: name}, nil
}

/*
Fragments returns all fragments sorted by name.
*/
func (m *Model) Fragments() ([]*Fragment, error) {
	keys, err := m.gw.NodeKeys(m.part, m.sch.Label("fragment"))
	if err != nil {
		return nil, err
	}

	ret := make([]*Fragment, 0, len(keys))

	for _, key := range keys {
		frag, err := m.FetchFragment(key)
		if err != nil {
			return nil, err
		}
		ret = append(ret, frag)
	}

	sort.Slice(ret, func(i, j int) bool {
		if ret[i].Name == ret[j].Name {
			return ret[i].Key < ret[j].Key
		}
		return ret[i].Name < ret[j].Name
	})

	return ret, nil
}

/*
checkFragmentName checks the fragment name constraints.
*/
func checkFragmentName(name string) error {
	if name == "" || len(name) > MaxNameLength {
		return NewError(ErrInvalidName, name)
	}
	return nil
}
