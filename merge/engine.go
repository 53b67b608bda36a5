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
Package merge contains the merge engine - the only entry point which
combines payload validation and persistence.

A merge validates the submitted payload first; a validation failure
aborts with no persisted side effects. A valid payload is translated
into entity mutations - vertices, ports and groups first, then the
neighbor relationships of the edges - which are buffered in a single
store transaction and committed as one unit of work. Re-submitting
already persisted entities updates them instead of duplicating them.
*/
package merge

import (
	"github.com/pol4/complex-rest-dtcd-supergraph/model"
	"github.com/pol4/complex-rest-dtcd-supergraph/payload"
	"github.com/pol4/complex-rest-dtcd-supergraph/schema"
)

/*
Scope addresses either the root graph or a specific fragment. Merges and
deletes are isolated per scope - a merge into one fragment can never
mutate entities owned by another fragment or by the root scope.
*/
type Scope struct {
	Fragment string // Fragment key or empty for the root scope
}

/*
Root returns the root scope.
*/
func Root() Scope {
	return Scope{}
}

/*
FragmentScope returns the scope of a specific fragment.
*/
func FragmentScope(key string) Scope {
	return Scope{Fragment: key}
}

/*
IsRoot checks if this scope is the root scope.
*/
func (s Scope) IsRoot() bool {
	return s.Fragment == ""
}

/*
Engine orchestrates validation and persistence of graph payloads.
*/
type Engine struct {
	m   *model.Model   // Entity model
	sch *schema.Schema // Key registry
}

/*
NewEngine creates a new merge engine instance.
*/
func NewEngine(m *model.Model, sch *schema.Schema) *Engine {
	return &Engine{m, sch}
}

/*
Merge validates a raw payload and merges it into the given scope as a
single transaction. It returns the resulting persisted graph view of
the scope in payload shape.
*/
func (e *Engine) Merge(scope Scope, raw map[string]interface{}) (map[string]interface{}, error) {

	p, err := payload.Decode(e.sch, raw)
	if err != nil {
		return nil, err
	}

	if err := payload.Validate(e.sch, p); err != nil {
		return nil, err
	}

	if !scope.IsRoot() {
		if _, err := e.m.FetchFragment(scope.Fragment); err != nil {
			return nil, err
		}
	}

	tx := e.m.Gateway().NewTrans()

	for _, rec := range p.Nodes {
		if err := e.m.StoreVertex(tx, scope.Fragment, rec); err != nil {
			return nil, err
		}
	}

	for _, rec := range p.Groups {
		if err := e.m.StoreGroup(tx, scope.Fragment, rec); err != nil {
			return nil, err
		}
	}

	assigned := make(model.PortAssignments)

	for _, rec := range p.Edges {
		if err := e.m.ConnectPorts(tx, assigned, rec); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return e.Retrieve(scope)
}

/*
Retrieve returns the persisted graph view of a scope in payload shape.
*/
func (e *Engine) Retrieve(scope Scope) (map[string]interface{}, error) {

	if !scope.IsRoot() {
		if _, err := e.m.FetchFragment(scope.Fragment); err != nil {
			return nil, err
		}
	}

	nodes, edges, groups, err := e.m.ScopeRecords(scope.Fragment)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		e.sch.Key("nodes"):  nodes,
		e.sch.Key("edges"):  edges,
		e.sch.Key("groups"): groups,
	}, nil
}

/*
Delete deletes a scope. Deleting a fragment with cascade enabled removes
all contained entities in dependency order; without cascade only the
fragment node is removed. Deleting the root scope clears the whole
supergraph and must cascade.
*/
func (e *Engine) Delete(scope Scope, cascade bool) error {

	if scope.IsRoot() {
		if !cascade {
			return model.NewError(model.ErrInvalidOperation,
				"deleting the root scope requires cascade")
		}

		return e.m.Clear()
	}

	return e.m.DeleteFragment(scope.Fragment, cascade)
}
