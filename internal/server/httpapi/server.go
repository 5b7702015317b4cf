// Package httpapi exposes the prompt services as a JSON API over net/http.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/promptvault/internal/logging"
	"github.com/dmitrijs2005/promptvault/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address  string
	prompts  *services.PromptService
	users    *services.UserService
	settings *services.SettingsService
	logger   logging.Logger
	handler  http.Handler
}

func NewServer(addr string, l logging.Logger, ps *services.PromptService, us *services.UserService, ss *services.SettingsService) *Server {
	s := &Server{
		address:  addr,
		prompts:  ps,
		users:    us,
		settings: ss,
		logger:   l.With("module", "http_server"),
	}
	s.handler = s.routes()
	return s
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.Handle("POST /api/logout", s.requireAuth(s.handleLogout))
	mux.Handle("GET /api/user", s.requireAuth(s.handleCurrentUser))
	mux.Handle("POST /api/update-credentials", s.requireAuth(s.handleUpdateCredentials))

	mux.Handle("GET /api/prompts", s.requireAuth(s.handleListPrompts))
	mux.Handle("POST /api/prompts", s.requireAuth(s.handleCreatePrompt))
	mux.Handle("POST /api/prompts/combine", s.requireAuth(s.handleCombinePrompts))
	mux.Handle("GET /api/prompts/{id}", s.requireAuth(s.handleGetPrompt))
	mux.Handle("PUT /api/prompts/{id}", s.requireAuth(s.handleUpdatePrompt))
	mux.Handle("DELETE /api/prompts/{id}", s.requireAuth(s.handleTrashPrompt))
	mux.Handle("GET /api/stats", s.requireAuth(s.handleStats))

	mux.Handle("GET /api/trash", s.requireAuth(s.handleListTrash))
	mux.Handle("DELETE /api/trash", s.requireAuth(s.handleEmptyTrash))
	mux.Handle("POST /api/trash/{id}/restore", s.requireAuth(s.handleRestore))
	mux.Handle("DELETE /api/trash/{id}", s.requireAuth(s.handleDeleteFromTrash))

	mux.Handle("GET /api/settings/{key}", s.requireAuth(s.handleGetSetting))
	mux.Handle("PUT /api/settings/{key}", s.requireAuth(s.handleSetSetting))
	mux.Handle("POST /api/update-notion-settings", s.requireAuth(s.handleUpdateNotionSettings))

	return s.withRequestID(s.withLogging(mux))
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
