// Package server wraps http.Server with graceful shutdown, functional options
// and environment-driven configuration.
//
// # Basic Usage
//
//	srv := server.New(":8080",
//		server.WithShutdownTimeout(10*time.Second),
//		server.WithLogger(log),
//	)
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, mux))
//	if err := g.Wait(); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Run returns a function suitable for errgroup.Group.Go. It starts the
// listener, waits for the context to be cancelled and then shuts the server
// down within the configured timeout.
//
// # Configuration
//
// Config is loaded from SERVER_* environment variables:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//
// When both SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE are set the key pair
// is loaded and the server serves HTTPS with TLS 1.2 as the minimum version.
//
// # Listener Address
//
// Addr reports the bound listener address once Start has opened it, which
// makes ":0" usable in tests.
package server
