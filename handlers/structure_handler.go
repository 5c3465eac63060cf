package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/tournament-structure/middleware"
	"github.com/Dosada05/tournament-structure/services"
	"github.com/Dosada05/tournament-structure/structure"
)

type StructureHandler struct {
	structureService services.StructureService
}

func NewStructureHandler(ss services.StructureService) *StructureHandler {
	return &StructureHandler{structureService: ss}
}

type previewResponse struct {
	Plan    *structure.Plan `json:"plan"`
	Summary string          `json:"summary"`
}

// Preview godoc
// @Summary Preview a tournament structure
// @Tags structure
// @Description Validates a draft and returns the derived plan. Nothing is stored.
// @Accept json
// @Produce json
// @Param body body structure.Draft true "Draft configuration"
// @Success 200 {object} handlers.previewResponse "Derived plan"
// @Failure 400 {object} map[string]string "Malformed body"
// @Failure 422 {object} map[string]interface{} "Field errors"
// @Failure 429 {object} map[string]string "Too many requests"
// @Router /structure/preview [post]
func (h *StructureHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var draft structure.Draft
	if err := readJSON(w, r, &draft); err != nil {
		readErrorResponse(w, r, err)
		return
	}

	plan, err := h.structureService.Preview(draft)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, previewResponse{Plan: plan, Summary: plan.Summary()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStructure godoc
// @Summary Get a tournament structure
// @Tags structure
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} services.StructureView "Stored draft, derived plan and version"
// @Failure 400 {object} map[string]string "Invalid ID"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Router /tournaments/{tournamentID}/structure [get]
func (h *StructureHandler) GetStructure(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := tournamentIDParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.structureService.GetStructure(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SaveStructure godoc
// @Summary Save a tournament structure
// @Tags structure
// @Description Validates the draft and stores it in the tournament configuration. The version must match the stored one.
// @Accept json
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Param body body services.SaveStructureInput true "Draft and expected version"
// @Success 200 {object} services.StructureView "Saved structure"
// @Failure 400 {object} map[string]string "Malformed body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not the organizer"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Failure 409 {object} map[string]string "Version conflict or structure locked"
// @Failure 422 {object} map[string]interface{} "Field errors"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/structure [put]
func (h *StructureHandler) SaveStructure(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, services.ErrAuthenticationFailed.Error())
		return
	}
	tournamentID, err := tournamentIDParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.SaveStructureInput
	if err := readJSON(w, r, &input); err != nil {
		readErrorResponse(w, r, err)
		return
	}
	if input.Draft.Format == "" {
		badRequestResponse(w, r, errors.New("draft.formatKind is required"))
		return
	}

	view, err := h.structureService.SaveStructure(r.Context(), actor, tournamentID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PublishStructure godoc
// @Summary Publish a tournament structure
// @Tags structure
// @Description Freezes the saved structure and uploads a public snapshot. Cannot be undone.
// @Produce json
// @Param tournamentID path int true "Tournament ID"
// @Success 200 {object} services.StructureView "Published structure"
// @Failure 400 {object} map[string]string "Nothing saved"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not the organizer"
// @Failure 404 {object} map[string]string "Tournament not found"
// @Failure 409 {object} map[string]string "Already published"
// @Failure 422 {object} map[string]interface{} "Stored structure no longer valid"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/structure/publish [post]
func (h *StructureHandler) PublishStructure(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, services.ErrAuthenticationFailed.Error())
		return
	}
	tournamentID, err := tournamentIDParam(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.structureService.PublishStructure(r.Context(), actor, tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
