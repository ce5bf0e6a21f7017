package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/hs-classifier/internal/classify"
	"github.com/sells-group/hs-classifier/internal/model"
	"github.com/sells-group/hs-classifier/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP classification API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initClassifier(ctx, "serve", true)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(env.Engine, env.Store),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			srv.Shutdown(shutCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// classifyRequest is the POST /v1/classify body.
type classifyRequest struct {
	Description string     `json:"description"`
	Mode        model.Mode `json:"mode"`
}

// classifyResponse wraps the outcome with the recorded run ID.
type classifyResponse struct {
	RunID string `json:"run_id,omitempty"`
	*model.Outcome
}

// buildRouter wires the HTTP API. st may be nil, in which case runs are not
// recorded and the /v1/runs endpoints answer 503.
func buildRouter(eng classifier, st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/classify", func(w http.ResponseWriter, req *http.Request) {
			var body classifyRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			body.Description = strings.TrimSpace(body.Description)
			if body.Description == "" {
				writeError(w, http.StatusBadRequest, "description is required")
				return
			}
			if body.Mode == "" {
				body.Mode = model.ModeSingle
			}
			if !body.Mode.Valid() {
				writeError(w, http.StatusBadRequest, "mode must be single or multi")
				return
			}

			outcome, runID, err := classifyAndRecord(req.Context(), eng, st, body.Description, body.Mode)
			if err != nil {
				status := classifyErrorStatus(err)
				zap.L().Error("classify request failed",
					zap.String("run_id", runID),
					zap.Int("status", status),
					zap.Error(err),
				)
				writeError(w, status, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, classifyResponse{RunID: runID, Outcome: outcome})
		})

		r.Get("/runs", func(w http.ResponseWriter, req *http.Request) {
			if st == nil {
				writeError(w, http.StatusServiceUnavailable, "run store is not configured")
				return
			}
			q := req.URL.Query()
			filter := store.RunFilter{
				Status: model.RunStatus(q.Get("status")),
				Mode:   model.Mode(q.Get("mode")),
			}
			filter.Limit, _ = strconv.Atoi(q.Get("limit"))
			filter.Offset, _ = strconv.Atoi(q.Get("offset"))

			runs, err := st.ListRuns(req.Context(), filter)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if runs == nil {
				runs = []model.Run{}
			}
			writeJSON(w, http.StatusOK, runs)
		})

		r.Get("/runs/{id}", func(w http.ResponseWriter, req *http.Request) {
			if st == nil {
				writeError(w, http.StatusServiceUnavailable, "run store is not configured")
				return
			}
			run, err := st.GetRun(req.Context(), chi.URLParam(req, "id"))
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "run not found")
				return
			}
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, run)
		})
	})

	return r
}

// classifyErrorStatus maps engine errors to HTTP status codes. Oracle
// contract violations are 422.
func classifyErrorStatus(err error) int {
	switch {
	case errors.Is(err, classify.ErrInvalidSelection), errors.Is(err, classify.ErrInvalidComparison):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
