package cmd

import (
	"github.com/achilleasa/gravlens/config"
	"github.com/achilleasa/gravlens/log"
	"github.com/urfave/cli"
)

var logger = log.New("gravlens")

// Apply the level from the config file; -v and -vv take precedence.
func setupLogging(ctx *cli.Context, cfg config.File) {
	log.SetLevel(cfg.LogLevel())

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
