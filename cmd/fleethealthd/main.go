// Command fleethealthd monitors the health of a multi-tenant chatbot
// backend and serves the aggregated fleet status to the admin dashboard.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
