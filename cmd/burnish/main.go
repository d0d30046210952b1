package main

import (
	"os"

	cmd "github.com/fwbox/burnish/internal"
	"github.com/fwbox/burnish/internal/logger"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logger.LogError(err.Error())
		os.Exit(1)
	}
}
