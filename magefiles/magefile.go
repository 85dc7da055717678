//go:build mage

// Package main provides build targets for stocktrack using Mage.
//
// Usage:
//
//	mage build      Compile the stocktrack binary to bin/
//	mage test       Run all tests
//	mage race       Run all tests with the race detector
//	mage lint       Run golangci-lint
//	mage serve      Build, then run the record store on :8080 (in-memory SQLite)
//	mage clean      Remove build artifacts
//	mage install    Install stocktrack to GOPATH/bin
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "stocktrack"
	binaryDir  = "bin"
	cmdDir     = "./cmd/stocktrack"
)

var Default = Build

// Build compiles the stocktrack binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs all tests with the race detector.
func Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Serve runs the reference record store against an in-memory database.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "serve", "--driver", "sqlite")
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}

// Install installs stocktrack to GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", cmdDir)
}
