package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"net/http"
	"slices"
	"time"

	jsoniter "github.com/json-iterator/go"

	"market_buyer/pkg/contextx"
	"market_buyer/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	httpServerReadHeaderTimeout = 5 * time.Second
	checkTimeout                = 2 * time.Second
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Check проверяет доступность зависимости для /ready.
type Check func(ctx context.Context) error

type Server struct {
	listenAddress string
	options       Options
	state         []byte
}

type Options struct {
	Name    string           `json:"name"`
	Version string           `json:"version"`
	Checks  map[string]Check `json:"-"`
}

type readiness struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Failed  map[string]string `json:"failed,omitempty"`
}

func NewServer(
	listenAddress string,
	options Options,
) Server {
	stateJSON, _ := json.Marshal(options) //nolint:errcheck,errchkjson

	return Server{
		listenAddress: listenAddress,
		options:       options,
		state:         stateJSON,
	}
}

func (s Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handlerHealthz)
	mux.HandleFunc("/ready", s.handlerReady)

	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              s.listenAddress,
		Handler:           mux,
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		if err := httpServer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger(ctx).Error("httpServer.Shutdown", logx.Error(err))
		}
	}()

	logger(ctx).Info("probe server started",
		slog.String("address", s.listenAddress),
		slog.Any("checks", slices.Sorted(maps.Keys(s.options.Checks))),
	)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	}

	logger(ctx).Info("probe server stopped")

	return nil
}

func (s Server) handlerHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write(s.state) //nolint:errcheck
}

// handlerReady отвечает 503, если хотя бы одна проверка не прошла.
func (s Server) handlerReady(w http.ResponseWriter, r *http.Request) {
	if len(s.options.Checks) == 0 {
		w.WriteHeader(http.StatusOK)
		w.Write(s.state) //nolint:errcheck
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	state := readiness{Name: s.options.Name, Version: s.options.Version}

	for name, check := range s.options.Checks {
		if err := check(ctx); err != nil {
			if state.Failed == nil {
				state.Failed = map[string]string{}
			}
			state.Failed[name] = err.Error()

			logger(ctx).Warn("readiness check failed", slog.String("check", name), logx.Error(err))
		}
	}

	status := http.StatusOK
	if len(state.Failed) > 0 {
		status = http.StatusServiceUnavailable
	}

	body, _ := json.Marshal(state) //nolint:errcheck,errchkjson

	w.WriteHeader(status)
	w.Write(body) //nolint:errcheck
}
