// Package main is the entry point for the cognito-jwt CLI
package main

import (
	"github.com/jrschumacher/cognito-jwt/cmd"
	"github.com/jrschumacher/cognito-jwt/internal/config"
	"github.com/jrschumacher/cognito-jwt/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat, cfg.IsDev())

	cmd.Execute(cfg)
}
