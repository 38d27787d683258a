// Package server wraps http.Server with environment configuration, optional
// TLS and context-driven graceful shutdown.
//
//	srv, err := server.New(cfg.Server, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	g.Go(func() error { return srv.Run(ctx, router) })
//
// Run blocks until ctx is canceled, then stops accepting connections and
// waits for in-flight requests up to ShutdownTimeout.
package server
