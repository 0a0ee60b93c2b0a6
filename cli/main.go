// ABOUTME: Entry point for fabric-designer CLI
// ABOUTME: Command-line tool for designing, checking, and exporting network fabrics

package main

import (
	"fmt"
	"os"

	"github.com/markalston/fabric-designer/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
