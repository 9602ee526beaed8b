// Command networksearch runs the causal-influence-graph path-finding query
// service, or issues a single one-shot query against a loaded graph
// snapshot for local debugging.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
