package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/farescout/farescout/internal/api/models"
	"github.com/farescout/farescout/internal/api/response"
	"github.com/farescout/farescout/internal/flights"
	"github.com/farescout/farescout/internal/pipeline"
)

// maxHorizonDays caps the days_ahead override so a single request cannot
// fan out into an unbounded number of provider queries.
const maxHorizonDays = 365

// PipelineRunner runs one trip discovery pipeline pass.
type PipelineRunner interface {
	Run(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error)
}

// TripsHandler handles trip search endpoints.
type TripsHandler struct {
	pipeline PipelineRunner
	logger   zerolog.Logger
}

// NewTripsHandler creates a new TripsHandler.
func NewTripsHandler(p PipelineRunner, logger zerolog.Logger) *TripsHandler {
	return &TripsHandler{pipeline: p, logger: logger}
}

// Search handles GET /v1/trips - runs the search and enrichment pipeline.
//
// Query parameters override the configured plan for this request only:
// days_ahead, cheapest, offers, adults, rooms, skip_lodging.
func (h *TripsHandler) Search(w http.ResponseWriter, r *http.Request) {
	opts, fieldErrors := parseOptions(r)
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid query parameters", fieldErrors)
		return
	}

	result, err := h.pipeline.Run(r.Context(), opts)
	if err != nil {
		h.logger.Error().Err(err).Msg("pipeline run failed")

		switch {
		case errors.Is(err, flights.ErrInvalidQuery):
			response.BadRequest(w, r, "fare provider rejected the search parameters", nil)
		case errors.Is(err, flights.ErrRateLimitExceeded):
			response.ServiceUnavailable(w, r, "fare provider rate limit exceeded, retry later")
		case errors.Is(err, flights.ErrProviderUnavailable):
			response.BadGateway(w, r, "fare provider is unavailable")
		default:
			response.InternalError(w, r, "trip search failed")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}

func parseOptions(r *http.Request) (pipeline.Options, []models.FieldError) {
	var opts pipeline.Options
	var fieldErrors []models.FieldError

	params := []struct {
		name string
		max  int
		dst  *int
	}{
		{"days_ahead", maxHorizonDays, &opts.HorizonDays},
		{"cheapest", 50, &opts.CheapestTrips},
		{"offers", 20, &opts.OffersPerTrip},
		{"adults", 10, &opts.Adults},
		{"rooms", 10, &opts.Rooms},
	}

	for _, p := range params {
		raw := r.URL.Query().Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field:   p.name,
				Message: "must be a positive integer",
				Code:    "INVALID",
			})
			continue
		}
		if v > p.max {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field:   p.name,
				Message: "exceeds maximum of " + strconv.Itoa(p.max),
				Code:    "OUT_OF_RANGE",
			})
			continue
		}
		*p.dst = v
	}

	if raw := r.URL.Query().Get("skip_lodging"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field:   "skip_lodging",
				Message: "must be a boolean",
				Code:    "INVALID",
			})
		} else {
			opts.SkipLodging = v
		}
	}

	return opts, fieldErrors
}
