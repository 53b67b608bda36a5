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
SuperGraph main entry point.
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pol4/complex-rest-dtcd-supergraph/config"
	"github.com/pol4/complex-rest-dtcd-supergraph/server"
)

/*
Using custom consolelogger type so we can test log.Fatal calls with unit tests.
*/
type consolelogger func(v ...interface{})

var fatal = consolelogger(log.Fatal)

/*
Flag variables
*/
var showVersion *bool

/*
Main entry point for SuperGraph.
*/
func main() {
	var err error

	// Parse command line

	configFile := flag.String("config", config.DefaultConfigFile, "Configuration file")
	showVersion = flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), os.Args[0], "[options]")
		fmt.Fprintln(flag.CommandLine.Output())
		fmt.Fprintln(flag.CommandLine.Output(), "Options:")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion {
		fmt.Println("SuperGraph", config.ProductVersion)
		return
	}

	// Load configuration

	if err = config.LoadConfigFile(*configFile); err != nil {
		fatal(err)
		return
	}

	// Start the server

	server.StartServer()
}
