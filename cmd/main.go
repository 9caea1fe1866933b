package main

import (
	"os"

	"github.com/gamingwithevets/quizprog-gui/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
