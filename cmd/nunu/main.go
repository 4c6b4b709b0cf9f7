// Package main provides the nunu binary: a terminal client for the Nunu
// backend covering login, the registration wizard, and session inspection.
// It hosts the same session core the mobile app uses — credential store,
// API client, session manager, route guard — behind cobra commands.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// errSilent failures were already reported in product wording.
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
