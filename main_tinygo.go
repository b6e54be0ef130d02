//go:build tinygo

package main

import (
	"matrixloop/app"
	"matrixloop/hal"
	"matrixloop/internal/config"
)

func main() {
	cfg := config.Default()
	app.Run(hal.New(cfg.HALOptions()), cfg)
}
