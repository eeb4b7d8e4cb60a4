package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"vaultsim/internal/app/exploration"
	"vaultsim/internal/app/ports"
	"vaultsim/internal/app/replay"
	"vaultsim/internal/app/status"
	"vaultsim/internal/app/training"
	"vaultsim/internal/domain/simulation"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	TrainingUC    training.UseCase
	ExplorationUC exploration.UseCase
	StatusUC      status.UseCase
	ReplayUC      replay.UseCase
	KPI           kpiSnapshotProvider
	CORSOrigins   []string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.CORSOrigins))

	v := s.Group("/api/vaults/:vault_id")
	v.GET("/status", h.vaultStatus)
	v.GET("/dwellers/:dweller_id", h.dwellerStatus)
	v.GET("/training", h.trainingStatus)
	v.POST("/training", h.startTraining)
	v.DELETE("/training/:session_id", h.cancelTraining)
	v.GET("/incidents", h.incidents)
	v.GET("/explorations", h.explorations)
	v.POST("/explorations", h.dispatch)
	v.POST("/explorations/:exploration_id/recall", h.recall)
	v.GET("/events", h.events)

	s.GET("/ops/kpi", h.kpi)
}

func vaultID(ctx *app.RequestContext) string {
	return strings.TrimSpace(ctx.Param("vault_id"))
}

func (h Handler) startTraining(c context.Context, ctx *app.RequestContext) {
	var body training.StartRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	body.VaultID = vaultID(ctx)

	resp, err := h.TrainingUC.Start(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) cancelTraining(c context.Context, ctx *app.RequestContext) {
	resp, err := h.TrainingUC.Cancel(c, training.CancelRequest{
		VaultID:   vaultID(ctx),
		SessionID: ctx.Param("session_id"),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) dispatch(c context.Context, ctx *app.RequestContext) {
	var body exploration.DispatchRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	body.VaultID = vaultID(ctx)

	resp, err := h.ExplorationUC.Dispatch(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) recall(c context.Context, ctx *app.RequestContext) {
	resp, err := h.ExplorationUC.Recall(c, exploration.RecallRequest{
		VaultID:       vaultID(ctx),
		ExplorationID: ctx.Param("exploration_id"),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) vaultStatus(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Vault(c, status.Request{VaultID: vaultID(ctx)})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) dwellerStatus(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Dweller(c, status.Request{VaultID: vaultID(ctx), DwellerID: ctx.Param("dweller_id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) trainingStatus(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Training(c, status.Request{VaultID: vaultID(ctx)})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) incidents(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Incidents(c, status.Request{VaultID: vaultID(ctx)})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) explorations(c context.Context, ctx *app.RequestContext) {
	resp, err := h.StatusUC.Explorations(c, status.Request{VaultID: vaultID(ctx)})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) events(c context.Context, ctx *app.RequestContext) {
	limit, err := queryInt(ctx, "limit")
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_limit", "invalid limit")
		return
	}
	from, err := queryInt64(ctx, "occurred_from")
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_occurred_from", "invalid occurred_from")
		return
	}
	to, err := queryInt64(ctx, "occurred_to")
	if err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_occurred_to", "invalid occurred_to")
		return
	}
	var types []string
	if raw := strings.TrimSpace(string(ctx.Query("type"))); raw != "" {
		types = strings.Split(raw, ",")
	}

	resp, err := h.ReplayUC.Execute(c, replay.Request{
		VaultID:      vaultID(ctx),
		Limit:        limit,
		OccurredFrom: from,
		OccurredTo:   to,
		Types:        types,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func queryInt(ctx *app.RequestContext, key string) (int, error) {
	raw := strings.TrimSpace(string(ctx.Query(key)))
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func queryInt64(ctx *app.RequestContext, key string) (int64, error) {
	raw := strings.TrimSpace(string(ctx.Query(key)))
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, training.ErrInvalidRequest),
		errors.Is(err, exploration.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, simulation.ErrDwellerNotFound),
		errors.Is(err, simulation.ErrRoomNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, simulation.ErrInvalidDuration):
		var rangeErr *simulation.DurationRangeError
		if errors.As(err, &rangeErr) {
			writeErrorDetails(ctx, consts.StatusUnprocessableEntity, "invalid_duration", err.Error(), map[string]any{
				"requested_seconds": int64(rangeErr.Requested.Seconds()),
				"min_seconds":       int64(rangeErr.Min.Seconds()),
				"max_seconds":       int64(rangeErr.Max.Seconds()),
			})
			return
		}
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "invalid_duration", err.Error())
	case errors.Is(err, simulation.ErrInvalidLoadout):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "invalid_loadout", err.Error())
	case errors.Is(err, simulation.ErrInvalidStat):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "invalid_stat", err.Error())
	case errors.Is(err, simulation.ErrNotTrainingRoom):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "not_training_room", err.Error())
	case errors.Is(err, simulation.ErrStatAtCap):
		writeErrorBody(ctx, consts.StatusConflict, "stat_at_cap", err.Error())
	case errors.Is(err, simulation.ErrAlreadyTraining):
		writeErrorBody(ctx, consts.StatusConflict, "already_training", err.Error())
	case errors.Is(err, simulation.ErrRoomAtCapacity):
		writeErrorBody(ctx, consts.StatusConflict, "room_at_capacity", err.Error())
	case errors.Is(err, simulation.ErrDwellerUnavailable):
		writeErrorBody(ctx, consts.StatusConflict, "dweller_unavailable", err.Error())
	case errors.Is(err, simulation.ErrTrainingNotActive):
		writeErrorBody(ctx, consts.StatusConflict, "training_not_active", err.Error())
	case errors.Is(err, simulation.ErrExplorationNotActive):
		writeErrorBody(ctx, consts.StatusConflict, "exploration_not_active", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ports.ErrLeaseHeld):
		writeErrorBody(ctx, consts.StatusConflict, "vault_busy", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func writeErrorDetails(ctx *app.RequestContext, status int, code, message string, details map[string]any) {
	ctx.JSON(status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
