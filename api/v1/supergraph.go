/*
 * DTCD SuperGraph
 *
 * Copyright 2022 The SuperGraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package v1

import (
	"net/http"

	"github.com/pol4/complex-rest-dtcd-supergraph/api"
	"github.com/pol4/complex-rest-dtcd-supergraph/merge"
)

/*
EndpointSupergraph is the supergraph endpoint URL (rooted). Handles
everything under supergraph/...
*/
const EndpointSupergraph = api.APIRoot + APIv1 + "/supergraph/"

/*
SupergraphEndpointInst creates a new endpoint handler.
*/
func SupergraphEndpointInst() api.RestEndpointHandler {
	return &supergraphEndpoint{}
}

/*
Handler object for supergraph operations.
*/
type supergraphEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandleGET handles REST calls to retrieve the content of a scope.
*/
func (se *supergraphEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	scope, ok := requestScope(w, resources)
	if !ok {
		return
	}

	data, err := api.Engine.Retrieve(scope)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, data)
}

/*
HandlePOST handles REST calls to merge a payload into a scope.
*/
func (se *supergraphEndpoint) HandlePOST(w http.ResponseWriter, r *http.Request, resources []string) {
	se.merge(w, r, resources)
}

/*
HandlePUT handles REST calls to merge a payload into a scope.
*/
func (se *supergraphEndpoint) HandlePUT(w http.ResponseWriter, r *http.Request, resources []string) {
	se.merge(w, r, resources)
}

/*
HandleDELETE handles REST calls to delete the content of a scope.
*/
func (se *supergraphEndpoint) HandleDELETE(w http.ResponseWriter, r *http.Request, resources []string) {

	scope, ok := requestScope(w, resources)
	if !ok {
		return
	}

	cascade, ok := queryParamBool(w, r, "cascade", true)
	if !ok {
		return
	}

	if err := api.Engine.Delete(scope, cascade); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"result": "ok",
	})
}

/*
merge validates a payload and persists it into a scope.
*/
func (se *supergraphEndpoint) merge(w http.ResponseWriter, r *http.Request, resources []string) {

	scope, ok := requestScope(w, resources)
	if !ok {
		return
	}

	raw, ok := readBody(w, r)
	if !ok {
		return
	}

	data, err := api.Engine.Merge(scope, raw)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, data)
}

/*
requestScope determines the scope of a request - the root graph when no
resource is given, otherwise the fragment named by the first resource.
*/
func requestScope(w http.ResponseWriter, resources []string) (merge.Scope, bool) {

	if !checkResources(w, resources, 0, 1, "Need at most a fragment id") {
		return merge.Root(), false
	}

	if len(resources) == 0 {
		return merge.Root(), true
	}

	return merge.FragmentScope(resources[0]), true
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (se *supergraphEndpoint) SwaggerDefs(s map[string]interface{}) {

	fragmentParam := map[string]interface{}{
		"name":        "fragment",
		"in":          "path",
		"description": "Id of a fragment.",
		"required":    true,
		"type":        "string",
	}

	cascadeParam := map[string]interface{}{
		"name":        "cascade",
		"in":          "query",
		"description": "Remove contained entities (default: true).",
		"required":    false,
		"type":        "boolean",
	}

	graphContent := map[string]interface{}{
		"description": "Graph content of the scope.",
		"schema": map[string]interface{}{
			"$ref": "#/definitions/GraphPayload",
		},
	}

	defaultError := map[string]interface{}{
		"description": "Error response",
		"schema": map[string]interface{}{
			"$ref": "#/definitions/Error",
		},
	}

	mergeOp := map[string]interface{}{
		"summary":     "Merge a payload into the scope.",
		"description": "Validate the given payload and persist it. Existing entities are updated.",
		"consumes": []string{
			"application/json",
		},
		"parameters": []map[string]interface{}{
			{
				"name":        "payload",
				"in":          "body",
				"description": "Graph payload with nodes, edges and groups.",
				"required":    true,
				"schema": map[string]interface{}{
					"$ref": "#/definitions/GraphPayload",
				},
			},
		},
		"responses": map[string]interface{}{
			"200":     graphContent,
			"default": defaultError,
		},
	}

	s["paths"].(map[string]interface{})["/v1/supergraph"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Return the content of the root graph.",
			"description": "Returns all nodes, edges and groups of the root graph.",
			"responses": map[string]interface{}{
				"200":     graphContent,
				"default": defaultError,
			},
		},
		"post": mergeOp,
		"put":  mergeOp,
		"delete": map[string]interface{}{
			"summary":     "Clear the root graph.",
			"description": "Removes all content of the supergraph. Requires cascade.",
			"parameters": []map[string]interface{}{
				cascadeParam,
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "Result object",
				},
				"default": defaultError,
			},
		},
	}

	mergeFragmentOp := map[string]interface{}{
		"summary":     "Merge a payload into a fragment.",
		"description": "Validate the given payload and persist it inside the fragment.",
		"consumes": []string{
			"application/json",
		},
		"parameters": []map[string]interface{}{
			fragmentParam,
			{
				"name":        "payload",
				"in":          "body",
				"description": "Graph payload with nodes, edges and groups.",
				"required":    true,
				"schema": map[string]interface{}{
					"$ref": "#/definitions/GraphPayload",
				},
			},
		},
		"responses": map[string]interface{}{
			"200":     graphContent,
			"default": defaultError,
		},
	}

	s["paths"].(map[string]interface{})["/v1/supergraph/{fragment}"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Return the content of a fragment.",
			"description": "Returns all nodes, edges and groups owned by the fragment.",
			"parameters": []map[string]interface{}{
				fragmentParam,
			},
			"responses": map[string]interface{}{
				"200":     graphContent,
				"default": defaultError,
			},
		},
		"post": mergeFragmentOp,
		"put":  mergeFragmentOp,
		"delete": map[string]interface{}{
			"summary":     "Delete a fragment and its content.",
			"description": "Removes the fragment. With cascade all contained entities are removed as well.",
			"parameters": []map[string]interface{}{
				fragmentParam,
				cascadeParam,
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "Result object",
				},
				"default": defaultError,
			},
		},
	}

	s["definitions"].(map[string]interface{})["GraphPayload"] = map[string]interface{}{
		"description": "Graph content of a scope.",
		"type":        "object",
		"properties": map[string]interface{}{
			"nodes": map[string]interface{}{
				"description": "List of vertices. Each vertex has a primitiveID and arbitrary properties.",
				"type":        "array",
				"items": map[string]interface{}{
					"type": "object",
				},
			},
			"edges": map[string]interface{}{
				"description": "List of edges. Each edge names sourceNode, sourcePort, targetNode and targetPort.",
				"type":        "array",
				"items": map[string]interface{}{
					"type": "object",
				},
			},
			"groups": map[string]interface{}{
				"description": "List of groups. Each group has a primitiveID and an optional parentID.",
				"type":        "array",
				"items": map[string]interface{}{
					"type": "object",
				},
			},
		},
	}
}
