/*
 * DTCD SuperGraph
 *
 * Copyright 2022 The SuperGraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package server

import (
	"log"
	"testing"

	"github.com/pol4/complex-rest-dtcd-supergraph/api"
	"github.com/pol4/complex-rest-dtcd-supergraph/config"
	"github.com/pol4/complex-rest-dtcd-supergraph/model"
)

func TestServerSingleOp(t *testing.T) {

	// Collect all log output

	var fatalLog []interface{}

	fatal = func(v ...interface{}) {
		fatalLog = append(fatalLog, v...)
	}
	print = func(v ...interface{}) {}

	defer func() {
		fatal = log.Fatal
		print = log.Print
		config.Config = nil
	}()

	config.LoadDefaultConfig()
	config.Config[config.MemoryOnlyStorage] = true

	// Run a single operation against a fully wired model and exit

	executed := false

	StartServerWithSingleOp(func(m *model.Model) bool {
		executed = true

		frag, err := m.CreateFragment("boot")
		if err != nil {
			t.Error(err)
			return true
		}

		if _, err := m.FetchFragment(frag.Key); err != nil {
			t.Error(err)
		}

		return true
	})

	if !executed {
		t.Error("Single operation should have run")
		return
	}

	if len(fatalLog) > 0 {
		t.Error("Unexpected fatal log:", fatalLog)
		return
	}

	// The API globals are wired up before the single operation runs

	if api.Model == nil || api.Engine == nil || api.Broker == nil {
		t.Error("API globals should be set")
		return
	}
}
