package main

import (
	"fmt"
	"os"

	"github.com/chainguard-dev/mvnlaunch/cmd/mvnlaunch"
)

func main() {
	if err := mvnlaunch.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
