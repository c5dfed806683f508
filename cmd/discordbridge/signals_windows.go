//go:build windows

package main

import (
	"os"

	"golang.org/x/sys/windows"
)

var terminationSignals = []os.Signal{os.Interrupt, windows.SIGTERM}
