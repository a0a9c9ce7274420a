//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Dev groups targets that run the pipeline from source.
type Dev mg.Namespace

// Serve starts the HTTP server on the configured address.
func (Dev) Serve() error {
	return sh.RunV("go", "run", cmdPkg, "serve", "--log-format", "console")
}

// Analyze runs the full pipeline once for argument and prints JSON.
func (Dev) Analyze(argument string) error {
	if argument == "" {
		return fmt.Errorf("argument must not be empty")
	}
	return sh.RunV("go", "run", cmdPkg, "analyze", "--format", "json", "--log-format", "console", argument)
}

// Search lists the ranked abstracts for argument without writing an argument.
func (Dev) Search(argument string) error {
	return sh.RunV("go", "run", cmdPkg, "search", "--log-format", "console", argument)
}

// Expand prints the normalized queries generated for argument.
func (Dev) Expand(argument string) error {
	return sh.RunV("go", "run", cmdPkg, "expand", "--log-level", "warn", argument)
}
