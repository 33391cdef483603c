// Package main starts the TouchMouse server.
package main

import "flag"

// main is the entrypoint for the TouchMouse server.
func main() {
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	static := flag.String("static", "", "Serve static assets from this directory instead of the embedded copy")
	flag.Parse()

	if err := run(*debug, *static); err != nil {
		logFatal(err)
	}
}
