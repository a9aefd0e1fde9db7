package v1

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/pt"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/service"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/drawing"
)

type PTHandler struct {
	svc *service.PTService
}

func NewPTHandler(svc *service.PTService) *PTHandler {
	return &PTHandler{svc: svc}
}

func (h *PTHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/clients/:id/pt-history", h.Get)
	rg.PUT("/clients/:id/pt-history", h.Update)
	rg.GET("/clients/:id/pt-history/pain-areas.png", h.PainAreas)
}

type updateHistoryRequest struct {
	Exercise       string `json:"exercise"`
	HasPT          bool   `json:"has_pt"`
	HasChiro       bool   `json:"has_chiro"`
	HasMassage     bool   `json:"has_massage"`
	HasSurgery     bool   `json:"has_surgery"`
	HasMedication  bool   `json:"has_medication"`
	HasAcupuncture bool   `json:"has_acupuncture"`
	// PainAreas is either the stroke list itself or that list serialized
	// into a string, as a form's hidden field would post it.
	PainAreas   json.RawMessage `json:"pain_areas"`
	BestPain    *int            `json:"best_pain"`
	WorstPain   *int            `json:"worst_pain"`
	CurrentPain *int            `json:"current_pain"`
	MakesWorse  string          `json:"makes_worse"`
	MakesBetter string          `json:"makes_better"`
}

func (h *PTHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	hist, err := h.svc.GetHistory(c.Request.Context(), id, requestMeta(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, hist)
}

func (h *PTHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req updateHistoryRequest
	if !bindJSON(c, &req) {
		return
	}

	painAreas, err := painAreasText(req.PainAreas)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid pain_areas: "+err.Error())
		return
	}

	hist, err := h.svc.UpdateHistory(c.Request.Context(), id, &pt.UpdateHistoryCommand{
		Exercise:       req.Exercise,
		HasPT:          req.HasPT,
		HasChiro:       req.HasChiro,
		HasMassage:     req.HasMassage,
		HasSurgery:     req.HasSurgery,
		HasMedication:  req.HasMedication,
		HasAcupuncture: req.HasAcupuncture,
		PainAreas:      painAreas,
		BestPain:       req.BestPain,
		WorstPain:      req.WorstPain,
		CurrentPain:    req.CurrentPain,
		MakesWorse:     req.MakesWorse,
		MakesBetter:    req.MakesBetter,
	}, requestMeta(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, hist)
}

func (h *PTHandler) PainAreas(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	data, err := h.svc.PainAreasImage(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, drawing.MimePNG, data)
}

func painAreasText(raw json.RawMessage) (string, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return "", nil
	}
	if strings.HasPrefix(s, `"`) {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return "", err
		}
		return text, nil
	}
	return s, nil
}
