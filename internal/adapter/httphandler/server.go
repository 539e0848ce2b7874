package httphandler

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

type HTTPServer struct {
	httpServer *http.Server
}

type ServerOpt func(*http.Server)

// TLSOpt makes the server listen with TLS. Certificates are taken
// from cfg.
func TLSOpt(cfg *tls.Config) ServerOpt {
	return func(s *http.Server) { s.TLSConfig = cfg }
}

func NewHTTPServer(addr string, handler http.Handler, opts ...ServerOpt) HTTPServer {
	handler = http.TimeoutHandler(handler, 5*time.Second, "unavailable")
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return HTTPServer{s}
}

func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := slog.With("op", op, "addr", s.httpServer.Addr)

	defer stopFn()

	var err error
	if s.httpServer.TLSConfig != nil {
		log.Info("listening with tls")
		err = s.httpServer.ListenAndServeTLS("", "")
	} else {
		log.Info("listening")
		err = s.httpServer.ListenAndServe()
	}
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		log.Error("unexpected servers shutdown", "err", err)
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := slog.With("op", op)

	log.Info("closing http server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
	}
	log.Info("http server is closed")
}
