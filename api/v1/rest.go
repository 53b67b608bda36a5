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
Package v1 contains SuperGraph REST API Version 1.

Supergraph endpoint

/db/v1/supergraph
/db/v1/supergraph/{fragment}

The endpoint provides access to the graph content of a scope - either
the root graph or a specific fragment. GET retrieves the content, POST
and PUT validate and merge a payload, DELETE removes the content. The
payload and response shape is:

	{
	    "nodes"  : [ { "primitiveID" : "...", ... }, ... ],
	    "edges"  : [ { "sourceNode" : "...", "sourcePort" : "...",
	                   "targetNode" : "...", "targetPort" : "..." }, ... ],
	    "groups" : [ { "primitiveID" : "...", "parentID" : "...", ... }, ... ]
	}

Fragment endpoint

/db/v1/fragment
/db/v1/fragment/{fragment}

The endpoint manages fragments: GET lists or fetches fragments, POST
creates a fragment, PUT renames it, DELETE removes it.

Subscription endpoint

/db/v1/subscriptions

The endpoint upgrades the connection to a websocket and pushes change
events of the supergraph to the client.
*/
package v1

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/pol4/complex-rest-dtcd-supergraph/api"
	"github.com/pol4/complex-rest-dtcd-supergraph/model"
	"github.com/pol4/complex-rest-dtcd-supergraph/payload"
)

/*
APIv1 is the directory for version 1 of the API
*/
const APIv1 = "/v1"

/*
V1EndpointMap is a map of urls to endpoints for version 1 of the API
*/
var V1EndpointMap = map[string]api.RestEndpointInst{
	EndpointSupergraph:    SupergraphEndpointInst,
	EndpointFragment:      FragmentEndpointInst,
	EndpointSubscriptions: SubscriptionsEndpointInst,
}

// Helper functions
// ================

/*
checkResources check given resources for a GET request.
*/
func checkResources(w http.ResponseWriter, resources []string, requiredMin int, requiredMax int, errorMsg string) bool {
	if len(resources) < requiredMin {
		http.Error(w, errorMsg, http.StatusBadRequest)
		return false
	} else if len(resources) > requiredMax {
		http.Error(w, "Invalid resource specification: "+strings.Join(resources, "/"), http.StatusBadRequest)
		return false
	}
	return true
}

/*
queryParamBool extracts a boolean query parameter with a default value.
*/
func queryParamBool(w http.ResponseWriter, r *http.Request, param string, def bool) (bool, bool) {

	val := r.URL.Query().Get(param)

	if val == "" {
		return def, true
	}

	ret, err := strconv.ParseBool(val)

	if err != nil {
		http.Error(w, "Invalid parameter value: "+param+" should be a boolean", http.StatusBadRequest)
		return def, false
	}

	return ret, true
}

/*
writeJSON writes a JSON response.
*/
func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("content-type", "application/json; charset=utf-8")

	ret := json.NewEncoder(w)
	ret.Encode(data)
}

/*
writeError writes an error response. Payload errors report an invalid
request, model errors report not found / forbidden conditions and
everything else is a store failure.
*/
func writeError(w http.ResponseWriter, err error) {

	if _, ok := err.(*payload.Error); ok {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if me, ok := err.(*model.Error); ok {

		switch me.Type {
		case model.ErrNotFound:
			http.Error(w, err.Error(), http.StatusNotFound)

		case model.ErrScopeViolation:
			http.Error(w, err.Error(), http.StatusForbidden)

		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}

		return
	}

	http.Error(w, err.Error(), http.StatusInternalServerError)
}

/*
readBody decodes a JSON request body into a generic map.
*/
func readBody(w http.ResponseWriter, r *http.Request) (map[string]interface{}, bool) {
	var ret map[string]interface{}

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&ret); err != nil {
		http.Error(w, "Could not decode request body: "+err.Error(),
			http.StatusBadRequest)
		return nil, false
	}

	return ret, true
}
