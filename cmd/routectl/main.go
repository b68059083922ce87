package main

import (
	"os"

	"github.com/hxuan190/routegraph/cmd/routectl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
