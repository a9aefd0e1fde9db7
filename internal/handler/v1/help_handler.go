package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/service"
)

type HelpHandler struct {
	svc *service.HelpService
}

func NewHelpHandler(svc *service.HelpService) *HelpHandler {
	return &HelpHandler{svc: svc}
}

func (h *HelpHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/clients/:id/help", h.State)
	rg.POST("/clients/:id/help/:kind", h.Toggle)
}

func (h *HelpHandler) State(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	state, err := h.svc.State(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, state)
}

// Toggle acts like a click on the help link for kind: it opens that
// panel, or closes it when it is already the open one.
func (h *HelpHandler) Toggle(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	state, err := h.svc.Toggle(c.Request.Context(), id, document.Kind(c.Param("kind")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, state)
}
