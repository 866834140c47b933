package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/sus/pkg/api/handlers"
	"github.com/cbodonnell/sus/pkg/api/middleware"
	"github.com/cbodonnell/sus/pkg/log"
	"github.com/cbodonnell/sus/pkg/messages"
	"github.com/cbodonnell/sus/pkg/repositories"
	"github.com/cbodonnell/sus/pkg/state"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port         int
	TLS          *TLSConfig
	StateManager state.StateManager
	Repository   repositories.Repository
	// ActionMessageChan enables action submission when set
	ActionMessageChan chan<- *messages.Message
	// DriverToken guards observations and action submission when set
	DriverToken string
}

// NewRouter builds the API routes.
func NewRouter(opts NewAPIServerOptions) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.NewLoggingMiddleware(), middleware.NewCORSMiddleware())

	// observations carry secret roles, so they share the driver token with action submission
	driverOnly := middleware.NewDriverTokenMiddleware(opts.DriverToken)

	r.HandleFunc("/state", handlers.HandleGetState(opts.StateManager)).Methods(http.MethodGet, http.MethodOptions)
	r.Handle("/players/{playerID:[0-9]+}/observation", driverOnly(handlers.HandleGetObservation(opts.StateManager))).Methods(http.MethodGet, http.MethodOptions)

	if opts.ActionMessageChan != nil {
		submit := driverOnly(handlers.HandleSubmitAction(opts.ActionMessageChan))
		r.Handle("/players/{playerID:[0-9]+}/actions", submit).Methods(http.MethodPost, http.MethodOptions)
	}

	if opts.Repository != nil {
		r.HandleFunc("/matches", handlers.HandleListMatches(opts.Repository)).Methods(http.MethodGet, http.MethodOptions)
		r.HandleFunc("/matches/{matchID}", handlers.HandleGetMatch(opts.Repository)).Methods(http.MethodGet, http.MethodOptions)
	}

	return r
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewRouter(opts),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
