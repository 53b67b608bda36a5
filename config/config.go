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
Package config handles the configuration of the SuperGraph server.
*/
package config

import (
	"fmt"
	"strconv"

	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/common/fileutil"
)

// Global variables
// ================

/*
ProductVersion is the current version of SuperGraph
*/
const ProductVersion = "1.2.0"

/*
DefaultConfigFile is the default config file which will be used to configure SuperGraph
*/
var DefaultConfigFile = "supergraph.config.json"

/*
Known configuration options for SuperGraph
*/
const (
	MemoryOnlyStorage = "MemoryOnlyStorage"
	LocationDatastore = "LocationDatastore"
	LocationHTTPS     = "LocationHTTPS"
	HTTPSCertificate  = "HTTPSCertificate"
	HTTPSKey          = "HTTPSKey"
	LockFile          = "LockFile"
	HTTPSHost         = "HTTPSHost"
	HTTPSPort         = "HTTPSPort"
	GraphPartition    = "GraphPartition"
	EnableChangeFeed  = "EnableChangeFeed"
)

/*
DefaultConfig is the defaut configuration
*/
var DefaultConfig = map[string]interface{}{
	MemoryOnlyStorage: false,
	LocationDatastore: "db",
	LocationHTTPS:     "ssl",
	HTTPSCertificate:  "cert.pem",
	HTTPSKey:          "key.pem",
	LockFile:          "supergraph.lck",
	HTTPSHost:         "localhost",
	HTTPSPort:         "9090",
	GraphPartition:    "main",
	EnableChangeFeed:  true,
}

/*
Config is the actual config which is used
*/
var Config map[string]interface{}

/*
LoadConfigFile loads a given config file. If the config file does not exist it is
created with the default options.
*/
func LoadConfigFile(configfile string) error {
	var err error

	Config, err = fileutil.LoadConfig(configfile, DefaultConfig)

	return err
}

/*
LoadDefaultConfig loads the default configuration.
*/
func LoadDefaultConfig() {
	data := make(map[string]interface{})
	for k, v := range DefaultConfig {
		data[k] = v
	}

	Config = data
}

// Helper functions
// ================

/*
Str reads a config value as a string value.
*/
func Str(key string) string {
	return fmt.Sprint(Config[key])
}

/*
Bool reads a config value as a boolean value.
*/
func Bool(key string) bool {
	ret, err := strconv.ParseBool(fmt.Sprint(Config[key]))

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("Could not parse config key %v: %v", key, err))

	return ret
}
