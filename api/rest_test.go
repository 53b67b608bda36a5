/*
 * DTCD SuperGraph
 *
 * Copyright 2022 The SuperGraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package api

import (
	"bytes"
	"encoding/json"
	"flag"
	"io/ioutil"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"

	"devt.de/krotik/common/httputil"
)

const TESTPORT = ":9691"

// Main function for all tests in this package

func TestMain(m *testing.M) {
	flag.Parse()

	hs, wg := startServer()
	if hs == nil {
		return
	}

	RegisterRestEndpoints(GeneralEndpointMap)

	// Run the tests

	res := m.Run()

	// Teardown

	stopServer(hs, wg)

	os.Exit(res)
}

func TestAboutEndpoint(t *testing.T) {
	queryURL := "http://localhost" + TESTPORT + EndpointAbout

	st, _, res := sendTestRequest(queryURL, "GET", nil)

	if st != "200 OK" || !strings.Contains(res, `"product": "SuperGraph"`) {
		t.Error("Unexpected response:", st, res)
		return
	}

	// Other methods are not allowed

	st, _, _ = sendTestRequest(queryURL, "DELETE", nil)

	if st != "405 Method Not Allowed" {
		t.Error("Unexpected response:", st)
		return
	}
}

func TestSwaggerEndpoint(t *testing.T) {
	queryURL := "http://localhost" + TESTPORT + EndpointSwagger

	st, _, res := sendTestRequest(queryURL, "GET", nil)

	if st != "200 OK" {
		t.Error("Unexpected response:", st, res)
		return
	}

	var doc map[string]interface{}

	if err := json.Unmarshal([]byte(res), &doc); err != nil {
		t.Error(err)
		return
	}

	if doc["swagger"] != "2.0" || doc["basePath"] != APIRoot {
		t.Error("Unexpected response:", res)
		return
	}

	paths := doc["paths"].(map[string]interface{})

	if _, ok := paths["/about"]; !ok {
		t.Error("Unexpected response:", res)
		return
	}

	info := doc["info"].(map[string]interface{})

	if info["title"] != "SuperGraph API" {
		t.Error("Unexpected response:", res)
		return
	}
}

// Helper functions
// ================

/*
Send a request to a HTTP test server
*/
func sendTestRequest(url string, method string, content []byte) (string, http.Header, string) {
	var req *http.Request
	var err error

	if content != nil {
		req, err = http.NewRequest(method, url, bytes.NewBuffer(content))
	} else {
		req, err = http.NewRequest(method, url, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	body, _ := ioutil.ReadAll(resp.Body)
	bodyStr := strings.Trim(string(body), " \n")

	// Try json decoding first

	out := bytes.Buffer{}
	err = json.Indent(&out, []byte(bodyStr), "", "  ")
	if err == nil {
		return resp.Status, resp.Header, out.String()
	}

	// Just return the body

	return resp.Status, resp.Header, bodyStr
}

/*
Start a HTTP test server.
*/
func startServer() (*httputil.HTTPServer, *sync.WaitGroup) {
	hs := &httputil.HTTPServer{}

	var wg sync.WaitGroup
	wg.Add(1)

	go hs.RunHTTPServer(TESTPORT, &wg)

	wg.Wait()

	// Server is started

	if hs.LastError != nil {
		panic(hs.LastError)
	}

	return hs, &wg
}

/*
Stop a started HTTP test server.
*/
func stopServer(hs *httputil.HTTPServer, wg *sync.WaitGroup) {

	if hs.Running == true {

		wg.Add(1)

		// Server is shut down

		hs.Shutdown()

		wg.Wait()

	} else {

		panic("Server was not running as expected")
	}
}
