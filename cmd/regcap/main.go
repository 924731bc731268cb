package main

import (
	"os"

	"github.com/bankcalc/regcap/cmd/regcap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
