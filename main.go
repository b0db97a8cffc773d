package main

import (
	"os"

	"github.com/ksasanka/ai-newsletter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
