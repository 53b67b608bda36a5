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
	"sync"

	"devt.de/krotik/eliasdb/graph"
	"devt.de/krotik/eliasdb/graph/data"
)

/*
Event is a single supergraph change notification.
*/
type Event struct {
	Type      string                 `json:"type"`      // Change type e.g. node.created
	Partition string                 `json:"partition"` // Graph partition
	Kind      string                 `json:"kind"`      // Entity kind
	Key       string                 `json:"key"`       // Entity key
	Data      map[string]interface{} `json:"data"`      // Entity data
}

/*
EventChannelBuffer is the buffer size of subscription channels. A
subscriber which cannot keep up loses events rather than blocking
store transactions.
*/
const EventChannelBuffer = 100

/*
Broker distributes supergraph change events to subscribers.
*/
type Broker struct {
	mutex  sync.Mutex
	nextID uint64
	subs   map[uint64]chan Event
}

/*
NewBroker creates a new event broker.
*/
func NewBroker() *Broker {
	return &Broker{subs: make(map[uint64]chan Event)}
}

/*
Subscribe registers a new subscriber and returns its id and channel.
*/
func (b *Broker) Subscribe() (uint64, chan Event) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.nextID++
	ch := make(chan Event, EventChannelBuffer)
	b.subs[b.nextID] = ch

	return b.nextID, ch
}

/*
Unsubscribe removes a subscriber.
*/
func (b *Broker) Unsubscribe(id uint64) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

/*
Publish sends an event to all subscribers without blocking.
*/
func (b *Broker) Publish(event Event) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

/*
ChangeRule is a graph rule which feeds store change events into a
Broker. It is registered with the graph manager at startup.
*/
type ChangeRule struct {
	broker *Broker
}

/*
NewChangeRule creates a new change feed rule for the given broker.
*/
func NewChangeRule(broker *Broker) *ChangeRule {
	return &ChangeRule{broker}
}

/*
Name returns the name of the rule.
*/
func (r *ChangeRule) Name() string {
	return "supergraph.changefeed"
}

/*
Handles returns a list of events which are handled by this rule.
*/
func (r *ChangeRule) Handles() []int {
	return []int{graph.EventNodeCreated, graph.EventNodeUpdated,
		graph.EventNodeDeleted, graph.EventEdgeCreated, graph.EventEdgeDeleted}
}

/*
Handle handles an event.
*/
func (r *ChangeRule) Handle(gm *graph.Manager, trans graph.Trans, event int,
	ed ...interface{}) error {

	part := ed[0].(string)
	node := ed[1].(data.Node)

	r.broker.Publish(Event{
		Type:      eventName(event),
		Partition: part,
		Kind:      node.Kind(),
		Key:       node.Key(),
		Data:      node.Data(),
	})

	return nil
}

/*
eventName maps a graph event to its change type name.
*/
func eventName(event int) string {
	switch event {
	case graph.EventNodeCreated:
		return "node.created"
	case graph.EventNodeUpdated:
		return "node.updated"
	case graph.EventNodeDeleted:
		return "node.deleted"
	case graph.EventEdgeCreated:
		return "edge.created"
	case graph.EventEdgeDeleted:
		return "edge.deleted"
	}

	return "unknown"
}
