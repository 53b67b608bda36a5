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
	"fmt"
	"net/http"

	"github.com/pol4/complex-rest-dtcd-supergraph/api"
	"github.com/pol4/complex-rest-dtcd-supergraph/model"
)

/*
EndpointFragment is the fragment endpoint URL (rooted). Handles
everything under fragment/...
*/
const EndpointFragment = api.APIRoot + APIv1 + "/fragment/"

/*
FragmentEndpointInst creates a new endpoint handler.
*/
func FragmentEndpointInst() api.RestEndpointHandler {
	return &fragmentEndpoint{}
}

/*
Handler object for fragment operations.
*/
type fragmentEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandleGET handles REST calls to list fragments or fetch a single fragment.
*/
func (fe *fragmentEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 0, 1, "Need at most a fragment id") {
		return
	}

	if len(resources) == 0 {
		frags, err := api.Model.Fragments()
		if err != nil {
			writeError(w, err)
			return
		}

		ret := make([]map[string]interface{}, 0, len(frags))
		for _, frag := range frags {
			ret = append(ret, fragmentData(frag))
		}

		writeJSON(w, ret)
		return
	}

	frag, err := api.Model.FetchFragment(resources[0])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, fragmentData(frag))
}

/*
HandlePOST handles REST calls to create a new fragment.
*/
func (fe *fragmentEndpoint) HandlePOST(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 0, 0, "Cannot create a fragment with a given id") {
		return
	}

	name, ok := fragmentName(w, r)
	if !ok {
		return
	}

	frag, err := api.Model.CreateFragment(name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, fragmentData(frag))
}

/*
HandlePUT handles REST calls to rename an existing fragment.
*/
func (fe *fragmentEndpoint) HandlePUT(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 1, 1, "Need a fragment id") {
		return
	}

	name, ok := fragmentName(w, r)
	if !ok {
		return
	}

	frag, err := api.Model.UpdateFragment(resources[0], name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, fragmentData(frag))
}

/*
HandleDELETE handles REST calls to delete a fragment.
*/
func (fe *fragmentEndpoint) HandleDELETE(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 1, 1, "Need a fragment id") {
		return
	}

	cascade, ok := queryParamBool(w, r, "cascade", true)
	if !ok {
		return
	}

	if err := api.Model.DeleteFragment(resources[0], cascade); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"result": "ok",
	})
}

/*
fragmentName extracts the fragment name from a request body.
*/
func fragmentName(w http.ResponseWriter, r *http.Request) (string, bool) {

	body, ok := readBody(w, r)
	if !ok {
		return "", false
	}

	name, ok := body["name"]
	if !ok {
		http.Error(w, "Need a name in the request body", http.StatusBadRequest)
		return "", false
	}

	return fmt.Sprint(name), true
}

/*
fragmentData returns the wire representation of a fragment.
*/
func fragmentData(frag *model.Fragment) map[string]interface{} {
	return map[string]interface{}{
		"id":   frag.Key,
		"name": frag.Name,
	}
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (fe *fragmentEndpoint) SwaggerDefs(s map[string]interface{}) {

	idParam := map[string]interface{}{
		"name":        "fragment",
		"in":          "path",
		"description": "Id of a fragment.",
		"required":    true,
		"type":        "string",
	}

	nameParam := map[string]interface{}{
		"name":        "data",
		"in":          "body",
		"description": "Object with a name for the fragment.",
		"required":    true,
		"schema": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"description": "Display name of the fragment.",
					"type":        "string",
				},
			},
		},
	}

	fragmentObject := map[string]interface{}{
		"description": "Fragment object",
		"schema": map[string]interface{}{
			"$ref": "#/definitions/Fragment",
		},
	}

	defaultError := map[string]interface{}{
		"description": "Error response",
		"schema": map[string]interface{}{
			"$ref": "#/definitions/Error",
		},
	}

	s["paths"].(map[string]interface{})["/v1/fragment"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "List all fragments.",
			"description": "Returns all fragments sorted by name.",
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "List of fragment objects",
					"schema": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"$ref": "#/definitions/Fragment",
						},
					},
				},
				"default": defaultError,
			},
		},
		"post": map[string]interface{}{
			"summary":     "Create a new fragment.",
			"description": "Creates a fragment with a store-assigned id.",
			"consumes": []string{
				"application/json",
			},
			"parameters": []map[string]interface{}{
				nameParam,
			},
			"responses": map[string]interface{}{
				"200":     fragmentObject,
				"default": defaultError,
			},
		},
	}

	s["paths"].(map[string]interface{})["/v1/fragment/{fragment}"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Return a single fragment.",
			"description": "Returns the fragment with the given id.",
			"parameters": []map[string]interface{}{
				idParam,
			},
			"responses": map[string]interface{}{
				"200":     fragmentObject,
				"default": defaultError,
			},
		},
		"put": map[string]interface{}{
			"summary":     "Rename a fragment.",
			"description": "Updates the display name of the fragment.",
			"consumes": []string{
				"application/json",
			},
			"parameters": []map[string]interface{}{
				idParam,
				nameParam,
			},
			"responses": map[string]interface{}{
				"200":     fragmentObject,
				"default": defaultError,
			},
		},
		"delete": map[string]interface{}{
			"summary":     "Delete a fragment.",
			"description": "Removes the fragment. With cascade all contained entities are removed as well.",
			"parameters": []map[string]interface{}{
				idParam,
				{
					"name":        "cascade",
					"in":          "query",
					"description": "Remove contained entities (default: true).",
					"required":    false,
					"type":        "boolean",
				},
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "Result object",
				},
				"default": defaultError,
			},
		},
	}

	s["definitions"].(map[string]interface{})["Fragment"] = map[string]interface{}{
		"description": "A named partition of the supergraph.",
		"type":        "object",
		"properties": map[string]interface{}{
			"id": map[string]interface{}{
				"description": "Store-assigned unique identifier.",
				"type":        "string",
			},
			"name": map[string]interface{}{
				"description": "Display name of the fragment.",
				"type":        "string",
			},
		},
	}
}
