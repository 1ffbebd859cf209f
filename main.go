// Package main is the entry point for the nuvio application.
package main

import (
	"github.com/qarqun/NuvioStreaming/cmd"
	"github.com/qarqun/NuvioStreaming/config"
	"github.com/qarqun/NuvioStreaming/internal/cache"
	"github.com/qarqun/NuvioStreaming/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	// Initialize asynchronous background cache maintenance.
	go cache.CollectGarbage()

	cmd.Execute()
}
