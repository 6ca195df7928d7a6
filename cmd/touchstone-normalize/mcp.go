package main

import (
	"flag"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/touchstone-normalize/pkg/api"
	"github.com/hazyhaar/touchstone-normalize/pkg/dict"
)

// cmdMCP serves the MCP tools over stdio. Logs go to stderr; stdout carries
// the protocol.
func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)
	pool := newPool(logger)

	reg := dict.NewRegistry(cfg.DictsDir, pool)
	if err := reg.Load(); err != nil {
		logger.Warn("no dictionaries loaded", "error", err)
	}

	srv := api.NewMCPServer(serviceName, version, reg, pool, cfg.options())
	if err := server.ServeStdio(srv); err != nil {
		logger.Error("mcp stdio", "error", err)
		os.Exit(1)
	}
}
