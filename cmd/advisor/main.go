// Command advisor runs the startup advisor: an HTTP API (serve), a terminal
// conversation (chat) and small operator reports (stats, users).
//
// @title          Startup Advisor API
// @version        1.0
// @description    Intake questionnaire and expert-mode advice for product startups.
// @BasePath       /api/v1
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
