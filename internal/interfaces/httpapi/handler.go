package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sourcegraph/conc"

	"github.com/sflhq/league-service/internal/platform/logging"
	"github.com/sflhq/league-service/internal/usecase"
)

const serviceName = "league-service"

// DependencyPinger reports whether an outbound dependency is reachable.
type DependencyPinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	leagueService *usecase.LeagueService
	dbPinger      DependencyPinger
	authPinger    DependencyPinger
	logger        *logging.Logger
	validator     *validator.Validate
	now           func() time.Time
}

func NewHandler(
	leagueService *usecase.LeagueService,
	dbPinger DependencyPinger,
	authPinger DependencyPinger,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService: leagueService,
		dbPinger:      dbPinger,
		authPinger:    authPinger,
		logger:        logger,
		validator:     newRequestValidator(),
		now:           time.Now,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   serviceName,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// Ready probes the database and the auth service concurrently; either one
// failing marks the service not ready.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Ready")
	defer span.End()

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var mu sync.Mutex
	checks := map[string]string{
		"database": "ok",
		"auth":     "ok",
	}
	healthy := true

	probe := func(name string, pinger DependencyPinger) func() {
		return func() {
			if pinger == nil {
				return
			}
			if err := pinger.Ping(probeCtx); err != nil {
				h.logger.WarnContext(probeCtx, "readiness probe failed", "dependency", name, "error", err)
				mu.Lock()
				checks[name] = "unavailable"
				healthy = false
				mu.Unlock()
			}
		}
	}

	var wg conc.WaitGroup
	wg.Go(probe("database", h.dbPinger))
	wg.Go(probe("auth", h.authPinger))
	wg.Wait()

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "not_ready"
	}

	writeJSON(ctx, w, status, map[string]any{
		"status":  state,
		"service": serviceName,
		"checks":  checks,
	})
}
