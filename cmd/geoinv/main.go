// SPDX-License-Identifier: MIT

// Command geoinv runs 2D resistivity and chargeability inversions.
package main

import (
	"fmt"
	"os"

	"github.com/katalvlaran/geoinv/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
