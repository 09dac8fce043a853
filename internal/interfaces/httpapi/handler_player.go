package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/laliga-scout/internal/domain/marketvalue"
	"github.com/riskibarqy/laliga-scout/internal/domain/playerstats"
)

// GetPlayerCareer aggregates league statistics of the player in the path.
func (h *Handler) GetPlayerCareer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerCareer")
	defer span.End()

	query := playerstats.CareerQuery{
		PlayerID:   strings.TrimSpace(r.PathValue("playerID")),
		TeamID:     queryParam(r, "team_id"),
		SeasonYear: queryParam(r, "season_year"),
	}
	if err := h.validateQuery(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	record, err := h.careerService.GetCareer(ctx, query)
	if err != nil {
		h.logger.WarnContext(ctx, "get player career failed",
			"player_id", query.PlayerID,
			"team_id", query.TeamID,
			"season_year", query.SeasonYear,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, record)
}

func (h *Handler) GetPlayerMarketHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerMarketHistory")
	defer span.End()

	query := marketvalue.Query{PlayerID: queryParam(r, "player_id")}
	if err := h.validateQuery(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	history, err := h.marketValueService.GetHistory(ctx, query.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get market value history failed", "player_id", query.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, history)
}
