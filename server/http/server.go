package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/w-h-a/originality/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type httpServer struct {
	options server.Options
	router  *mux.Router
	srv     *http.Server
	addr    string
	logger  *slog.Logger
	mtx     sync.RWMutex
}

func (s *httpServer) Handle(method string, path string, handler http.Handler) {
	s.router.Handle(path, handler).Methods(method)
}

func (s *httpServer) Start() error {
	ln, err := net.Listen("tcp", s.options.Address)
	if err != nil {
		return err
	}

	s.mtx.Lock()
	s.addr = ln.Addr().String()
	s.mtx.Unlock()

	s.logger.Info("listening", "address", s.addr)

	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *httpServer) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.options.ShutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// Address is the bound listener address once Start has been called.
func (s *httpServer) Address() string {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	if len(s.addr) > 0 {
		return s.addr
	}
	return s.options.Address
}

func NewServer(opts ...server.Option) server.Server {
	options := server.NewOptions(opts...)

	router := mux.NewRouter()

	var handler http.Handler = router

	if ms, ok := MiddlewareFrom(options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			handler = ms[i](handler)
		}
	}

	s := &httpServer{
		options: options,
		router:  router,
		srv: &http.Server{
			Handler: otelhttp.NewHandler(handler, "originality"),
		},
		logger: slog.Default().With("component", "server"),
		mtx:    sync.RWMutex{},
	}

	return s
}
