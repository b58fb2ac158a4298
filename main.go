// Package main is the entry point for the halcyon application.
package main

import (
	"github.com/halcyon-player/halcyon/cmd"
	"github.com/halcyon-player/halcyon/config"
	"github.com/halcyon-player/halcyon/internal/cache"
	"github.com/halcyon-player/halcyon/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Initialize asynchronous background cache maintenance.
	cache.CollectGarbage()

	cmd.Execute()
}
