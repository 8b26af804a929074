// Package main is the entry point for the gpsmetrics CLI tool, which loads
// GPS session exports and compares player running metrics against the
// positional standard of the professional squad.
package main

import "github.com/pable/go-gps-metrics/cmd"

func main() {
	cmd.Execute()
}
