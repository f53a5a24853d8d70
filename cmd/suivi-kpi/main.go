package main

import (
	"os"

	"suivi-kpi/cmd/suivi-kpi/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
