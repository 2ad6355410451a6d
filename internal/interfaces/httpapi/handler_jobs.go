package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/pgctour/api/internal/usecase"
)

type refreshSeasonJobRequest struct {
	SeasonID   string `json:"season_id" validate:"required"`
	MaxWorkers int    `json:"max_workers" validate:"gte=0,lte=32"`
	DryRun     bool   `json:"dry_run"`
}

func (h *Handler) RunRefreshSeasonJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshSeasonJob")
	defer span.End()

	if h.refreshService == nil {
		writeError(ctx, w, fmt.Errorf("%w: refresh service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req refreshSeasonJobRequest
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.refreshService.RefreshSeason(ctx, usecase.RefreshInput{
		SeasonID:   req.SeasonID,
		MaxWorkers: req.MaxWorkers,
		DryRun:     req.DryRun,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run refresh season job failed",
			"season_id", req.SeasonID, "dry_run", req.DryRun, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "refresh season job completed",
		"run_id", result.RunID,
		"season_id", result.SeasonID,
		"tasks", result.TaskCount,
		"failed", result.FailedCount,
		"drifted", result.DriftCount,
		"dry_run", result.DryRun,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
