// Package main is the entry point for the vidscout application.
package main

import (
	"github.com/samber/lo"
	"github.com/vidscout/vidscout/cmd"
	"github.com/vidscout/vidscout/config"
	"github.com/vidscout/vidscout/internal/cache"
	"github.com/vidscout/vidscout/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go cache.CollectGarbage()

	cmd.Execute()
}
