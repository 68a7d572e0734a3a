package main

import (
	"errors"
	"os"

	"suba-radar/cli"
	"suba-radar/config"
	"suba-radar/models"
	"suba-radar/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetDebug(cfg.Debug)

	if err := cli.Execute(cfg, logger); err != nil {
		var die *models.DataIntegrityError
		if errors.As(err, &die) {
			logger.Error("Dataset rejected: %v", err)
			logger.Error("Fix the source file and run again; no rows were loaded.")
		} else {
			logger.Error("%v", err)
		}
		os.Exit(1)
	}
}
