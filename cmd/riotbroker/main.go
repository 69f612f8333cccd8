// Package main is the entry point for riotbroker, the riotp300 message
// broker.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
