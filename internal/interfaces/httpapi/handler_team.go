package httpapi

import (
	"net/http"

	"github.com/riskibarqy/laliga-scout/internal/domain/team"
)

// SearchTeams returns the league clubs whose name matches team_name.
func (h *Handler) SearchTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchTeams")
	defer span.End()

	query := team.SearchQuery{TeamName: queryParam(r, "team_name")}
	if err := h.validateQuery(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	clubs, err := h.clubService.SearchClubs(ctx, query.TeamName)
	if err != nil {
		h.logger.WarnContext(ctx, "search teams failed", "team_name", query.TeamName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, clubs)
}
