// Package main is the entry point for the itms-publisher CLI.
package main

import (
	"os"

	"github.com/itms-toolkit/itms-publisher/pkg/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode separates configuration mistakes from failed remote checks.
func exitCode(err error) int {
	if errors.ShouldFailBuild(err) {
		return 2
	}
	return 1
}
