// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the process scaffolding shared by VoiceX
// daemons: a structured logger and an HTTP server with a context-driven
// lifecycle.
//
// Daemons compose these in their own main() rather than subclassing a
// framework:
//
//	logger := service.NewLogger(cfg.LogLevel())
//	server := service.NewHTTPServer(service.HTTPServerConfig{
//		Address: cfg.HTTP.Listen,
//		Handler: api.NewHandler(...),
//		Logger:  logger,
//	})
//	err := server.Serve(ctx) // blocks until ctx is cancelled
package service
