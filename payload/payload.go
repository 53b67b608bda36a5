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
Package payload contains the decoding and validation of graph payloads.

A raw payload is first decoded structurally: the container keys must hold
lists of records, every node and group record must carry the id key and
every edge record must carry all four endpoint keys. The decoded payload
is then checked semantically against the supergraph invariants: id and
edge tuple uniqueness, group self-references and referential integrity of
edge endpoints and parent ids. Both passes are pure - the persisted store
is never touched.
*/
package payload

import (
	"fmt"
	"strings"

	"github.com/pol4/complex-rest-dtcd-supergraph/schema"
)

/*
Payload is a structurally decoded graph payload. The records are kept
as generic maps - clients may attach arbitrary properties beyond the
fixed schema keys.
*/
type Payload struct {
	Nodes  []map[string]interface{} // Vertex records
	Edges  []map[string]interface{} // Edge records
	Groups []map[string]interface{} // Group records (optional)
}

/*
Decode decodes a raw payload structure. It returns a structural error of
type MissingKey if a required container or record field is not present.
*/
func Decode(sch *schema.Schema, raw map[string]interface{}) (*Payload, error) {
	var err error

	ret := &Payload{}

	nodesKey := sch.Key("nodes")
	edgesKey := sch.Key("edges")
	groupsKey := sch.Key("groups")
	idKey := sch.Key("yfiles_id")

	// Nodes must be a non-empty list of records which all carry the id key

	if ret.Nodes, err = decodeRecords(raw, nodesKey, idKey); err != nil {
		return nil, err
	} else if len(ret.Nodes) == 0 {
		return nil, NewError(ErrMissingKey, nodesKey)
	}

	// Edges must carry all four endpoint keys

	if ret.Edges, err = decodeRecords(raw, edgesKey, sch.Key("source_node"),
		sch.Key("target_node"), sch.Key("source_port"), sch.Key("target_port")); err != nil {
		return nil, err
	}

	// Groups are optional and share the record shape of nodes

	if _, ok := raw[groupsKey]; ok {
		if ret.Groups, err = decodeRecords(raw, groupsKey, idKey); err != nil {
			return nil, err
		}
	}

	return ret, nil
}

/*
decodeRecords reads a list of records from a raw container entry and
checks that every record carries the given required keys. A missing
container is treated as an empty list.
*/
func decodeRecords(raw map[string]interface{}, containerKey string,
	requiredKeys ...string) ([]map[string]interface{}, error) {

	container, ok := raw[containerKey]
	if !ok {
		return nil, nil
	}

	list, ok := container.([]interface{})
	if !ok {
		return nil, NewError(ErrMissingKey, containerKey)
	}

	ret := make([]map[string]interface{}, 0, len(list))

	for _, entry := range list {

		rec, ok := entry.(map[string]interface{})
		if !ok {
			return nil, NewError(ErrMissingKey, containerKey)
		}

		for _, key := range requiredKeys {
			if _, ok := rec[key]; !ok {
				return nil, NewError(ErrMissingKey, key)
			}
		}

		ret = append(ret, rec)
	}

	return ret, nil
}

/*
RecordID returns the value of a record field as a comparable id string.
*/
func RecordID(rec map[string]interface{}, key string) string {
	return fmt.Sprint(rec[key])
}

/*
tupleSep separates the components of an edge tuple string. Ids may
contain any printable character, so a non-printable separator keeps
distinct tuples from comparing as equal.
*/
const tupleSep = "\x1f"

/*
EdgeTuple returns the identity 4-tuple of an edge record as a single
comparable string.
*/
func EdgeTuple(sch *schema.Schema, rec map[string]interface{}) string {
	return strings.Join([]string{
		RecordID(rec, sch.Key("source_node")),
		RecordID(rec, sch.Key("source_port")),
		RecordID(rec, sch.Key("target_node")),
		RecordID(rec, sch.Key("target_port")),
	}, tupleSep)
}
