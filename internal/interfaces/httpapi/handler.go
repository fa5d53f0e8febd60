package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/doubles-league/internal/platform/logging"
	"github.com/riskibarqy/doubles-league/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	playerService      *usecase.PlayerService
	leagueService      *usecase.LeagueService
	gameService        *usecase.GameService
	leaderboardService *usecase.LeaderboardService
	statsService       *usecase.StatsService
	warmupService      *usecase.WarmupService
	warmupWorkers      int
	logger             *logging.Logger
	validator          *validator.Validate
}

type Services struct {
	Players      *usecase.PlayerService
	Leagues      *usecase.LeagueService
	Games        *usecase.GameService
	Leaderboards *usecase.LeaderboardService
	Stats        *usecase.StatsService
	Warmup       *usecase.WarmupService
}

func NewHandler(services Services, warmupWorkers int, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		playerService:      services.Players,
		leagueService:      services.Leagues,
		gameService:        services.Games,
		leaderboardService: services.Leaderboards,
		statsService:       services.Stats,
		warmupService:      services.Warmup,
		warmupWorkers:      warmupWorkers,
		logger:             logger.Named("http"),
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSON rejects unknown fields. An empty body decodes to the zero value
// when allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	decoder := jsoniter.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// fail logs server-side failures at error level and client mistakes at
// debug level before writing the envelope.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error, args ...any) {
	args = append(args, "error", err)
	if mapError(err).HTTPStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.DebugContext(ctx, msg, args...)
	}
	writeError(ctx, w, err)
}

func (h *Handler) requirePlayerID(ctx context.Context) (string, error) {
	playerID, ok := playerIDFromContext(ctx)
	if !ok {
		return "", fmt.Errorf("%w: player identity is required", usecase.ErrUnauthorized)
	}
	return playerID, nil
}
