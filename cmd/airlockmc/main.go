package main

import (
	"os"

	"airlockmc/cmd/airlockmc/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
