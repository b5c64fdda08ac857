package main

import (
	"os"

	"github.com/patelanuj7/calculatorapp/cmd/calc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
