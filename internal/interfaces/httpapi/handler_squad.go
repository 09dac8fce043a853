package httpapi

import (
	"net/http"

	"github.com/riskibarqy/laliga-scout/internal/domain/player"
)

func (h *Handler) GetSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSquad")
	defer span.End()

	query := player.SquadQuery{
		TeamID:     queryParam(r, "team_id"),
		SeasonYear: queryParam(r, "season_year"),
	}
	if err := h.validateQuery(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	squad, err := h.squadService.GetSquad(ctx, query.TeamID, query.SeasonYear)
	if err != nil {
		h.logger.WarnContext(ctx, "get squad failed",
			"team_id", query.TeamID,
			"season_year", query.SeasonYear,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squad)
}
