package main

import (
	"os"

	"github.com/geoassist/geoassist/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
