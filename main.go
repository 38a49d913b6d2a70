// Package main is the entry point for the w3metrics CLI tool, which aggregates
// decoded Warcraft III action logs into per-player statistics.
package main

import "github.com/pable/go-w3-metrics/cmd"

func main() {
	cmd.Execute()
}
