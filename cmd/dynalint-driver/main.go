// Package main is the entry point for the dynalint driver binary.
//
// The CLI normally builds this binary per toolchain and launches it with
// DYNALINT_LIBS set; it is not meant to be run by hand.
package main

import "github.com/dynalint/dynalint/driver"

func main() {
	driver.Main()
}
