// matdemand projects exogenous bulk material demand (steel, cement,
// aluminum) from historical consumption and scenario drivers.
//
// Usage:
//
//	matdemand project --input=<bundle.yaml> [--scenario=SSP2] [--materials=steel,cement] [--format=ascii|markdown|csv]
//	matdemand fit --input=<bundle.yaml> [--scenario=SSP2]
//	matdemand modes [--modes=<modes.yaml>]
//	matdemand runs [--run=<id>]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
