package main

import (
	"os"

	"github.com/todoslice/todoslice/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
