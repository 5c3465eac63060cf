package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-structure/structure"
)

type FormatHandler struct {
	rules structure.Rules
}

func NewFormatHandler(rules structure.Rules) *FormatHandler {
	return &FormatHandler{rules: rules}
}

// ListRules godoc
// @Summary List format rules
// @Tags formats
// @Description Returns every tournament format with its team-count rule, stages, allowed match modes and parameters.
// @Produce json
// @Success 200 {object} map[string]interface{} "Rule table"
// @Router /formats/rules [get]
func (h *FormatHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	resp := jsonResponse{
		"formats":         h.rules.List(),
		"legsModes":       structure.LegsModes,
		"playoffsModes":   structure.PlayoffsModes,
		"seedingPolicies": structure.SeedingPolicies,
		"roundMinutes":    structure.RoundMinutes,
		"advanceOptions":  structure.AdvanceOptions,
		"minGroupSize":    structure.MinGroupSize,
		"minBracketSize":  structure.MinBracketSize,
	}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
