//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "ankidict"

// Default target to run when none is specified
var Default = Build

// Build builds the ankidict binary
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/ankidict")
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Install installs ankidict to GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/ankidict")
}

// Clean removes build artifacts
func Clean() error {
	return os.RemoveAll(binary)
}
