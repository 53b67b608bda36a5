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

import "github.com/pol4/complex-rest-dtcd-supergraph/schema"

/*
Validate runs the semantic invariant checks on a decoded payload. The
check categories run in a fixed order and the first failing category
determines the reported error:

- Uniqueness of node ids, edge tuples and group ids
- Group self-references
- Existence of edge endpoint node ids
- Existence of declared parent group ids

Group ids and node ids share an id space but uniqueness is checked per
submitted collection - a collision between a node id and a group id is
not an error here.
*/
func Validate(sch *schema.Schema, p *Payload) error {
	idKey := sch.Key("yfiles_id")
	parentKey := sch.Key("parent_id")

	nodeIDs := collectIDs(p.Nodes, idKey)
	groupIDs := collectIDs(p.Groups, idKey)

	// Uniqueness checks

	if len(nodeIDs) != len(p.Nodes) {
		return NewError(ErrNotUnique, "")
	}

	edgeTuples := make(map[string]bool)
	for _, rec := range p.Edges {
		edgeTuples[EdgeTuple(sch, rec)] = true
	}

	if len(edgeTuples) != len(p.Edges) {
		return NewError(ErrNotUnique, "")
	}

	if len(groupIDs) != len(p.Groups) {
		return NewError(ErrNotUnique, "")
	}

	// Self-reference check for groups

	for _, rec := range p.Groups {
		if parent, ok := rec[parentKey]; ok && parent != nil {
			if RecordID(rec, idKey) == RecordID(rec, parentKey) {
				return NewError(ErrSelfReference, RecordID(rec, idKey))
			}
		}
	}

	// Reference integrity of edge endpoints

	srcKey := sch.Key("source_node")
	tgtKey := sch.Key("target_node")

	for _, rec := range p.Edges {
		for _, key := range []string{srcKey, tgtKey} {
			if id := RecordID(rec, key); !nodeIDs[id] {
				return NewError(ErrDoesNotExist, id)
			}
		}
	}

	// Reference integrity of parent ids

	for _, rec := range append(append([]map[string]interface{}{}, p.Nodes...), p.Groups...) {
		if parent, ok := rec[parentKey]; ok && parent != nil {
			if id := RecordID(rec, parentKey); !groupIDs[id] {
				return NewError(ErrDoesNotExist, id)
			}
		}
	}

	return nil
}

/*
collectIDs collects the distinct id values of a record list.
*/
func collectIDs(recs []map[string]interface{}, idKey string) map[string]bool {
	ret := make(map[string]bool)

	for _, rec := range recs {
		ret[RecordID(rec, idKey)] = true
	}

	return ret
}
