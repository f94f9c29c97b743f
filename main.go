// Package main is the entry point for the lolmetrics CLI tool, which stores
// League of Legends match records and computes weekly player statistics.
package main

import "github.com/pable/go-lol-metrics/cmd"

func main() {
	cmd.Execute()
}
