// Package main is the entry point for the attackmetrics CLI tool, which turns
// recorded match actions into per-team spatial and statistical reports.
package main

import "github.com/teinac2012/attack-metrics-suite/cmd"

func main() {
	cmd.Execute()
}
