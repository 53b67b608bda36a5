/*
 * DTCD SuperGraph
 *
 * Copyright 2022 The SuperGraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package config

import (
	"os"
	"testing"
)

func TestConfig(t *testing.T) {

	Config = nil

	LoadDefaultConfig()

	if res := Str(GraphPartition); res != "main" {
		t.Error("Unexpected partition:", res)
		return
	}

	if Bool(MemoryOnlyStorage) {
		t.Error("Memory only storage should be off by default")
		return
	}

	if !Bool(EnableChangeFeed) {
		t.Error("Change feed should be on by default")
		return
	}

	Config = nil
}

func TestLoadConfigFile(t *testing.T) {
	configFile := "test.config.json"

	defer func() {
		os.Remove(configFile)
		Config = nil
	}()

	// A missing file is created with the default options

	if err := LoadConfigFile(configFile); err != nil {
		t.Error(err)
		return
	}

	if res := Str(HTTPSPort); res != "9090" {
		t.Error("Unexpected port:", res)
		return
	}

	if _, err := os.Stat(configFile); err != nil {
		t.Error("Config file should have been created:", err)
		return
	}
}
