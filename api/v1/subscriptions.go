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
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pol4/complex-rest-dtcd-supergraph/api"
)

/*
EndpointSubscriptions is the subscription endpoint URL (rooted). Handles
websockets under subscriptions/
*/
const EndpointSubscriptions = api.APIRoot + APIv1 + "/subscriptions/"

/*
upgrader can upgrade normal requests to websocket communications
*/
var upgrader = websocket.Upgrader{
	Subprotocols:    []string{"supergraph-subscriptions"},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

/*
SubscriptionsEndpointInst creates a new endpoint handler.
*/
func SubscriptionsEndpointInst() api.RestEndpointHandler {
	return &subscriptionsEndpoint{}
}

/*
Handler object for subscription operations.
*/
type subscriptionsEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandleGET handles subscription requests. The incoming connection is
upgraded to a websocket and change events of the supergraph are pushed
to the client until it hangs up.
*/
func (e *subscriptionsEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	// Update the incomming connection to a websocket
	// If the upgrade fails then the client gets an HTTP error response.

	conn, err := upgrader.Upgrade(w, r, nil)

	if err != nil {

		// We give details here on what went wrong

		w.Write([]byte(err.Error()))
		return
	}

	if api.Broker == nil {
		e.WriteError(conn, "Change feed is not enabled", true)
		return
	}

	// Websocket connections support one concurrent reader and one
	// concurrent writer.
	// See: https://godoc.org/github.com/gorilla/websocket#hdr-Concurrency

	connWMutex := &sync.Mutex{}

	connWMutex.Lock()
	conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"init_success","payload":{}}`))
	connWMutex.Unlock()

	subID, events := api.Broker.Subscribe()
	defer api.Broker.Unsubscribe(subID)

	done := make(chan struct{})

	// The reader loop only detects the client hanging up

	go func() {
		defer close(done)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {

		case event, ok := <-events:

			if !ok {
				return
			}

			res, err := json.Marshal(map[string]interface{}{
				"type":    "subscription_data",
				"payload": event,
			})

			if err != nil {
				connWMutex.Lock()
				e.WriteError(conn, err.Error(), false)
				connWMutex.Unlock()

				continue
			}

			connWMutex.Lock()
			err = conn.WriteMessage(websocket.TextMessage, res)
			connWMutex.Unlock()

			if err != nil {
				return
			}

		case <-done:
			return
		}
	}
}

/*
WriteError writes an error message to the websocket.
*/
func (e *subscriptionsEndpoint) WriteError(conn *websocket.Conn, msg string, close bool) {

	// Write the error as cleartext message

	data, _ := json.Marshal(map[string]interface{}{
		"type": "subscription_fail",
		"payload": map[string]interface{}{
			"errors": []string{msg},
		},
	})

	conn.WriteMessage(websocket.TextMessage, data)

	if close {
		// Write error as closing control message

		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseUnsupportedData, msg), time.Now().Add(10*time.Second))

		conn.Close()
	}
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (e *subscriptionsEndpoint) SwaggerDefs(s map[string]interface{}) {
	// No swagger definitions for this endpoint as it only handles websocket requests
}
