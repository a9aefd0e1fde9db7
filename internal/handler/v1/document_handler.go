package v1

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/service"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/age"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/drawing"
)

type DocumentHandler struct {
	svc *service.DocumentService
}

func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// RegisterRoutes mounts the read routes on rg and the signing route on
// sign, which carries its own rate limit.
func (h *DocumentHandler) RegisterRoutes(rg, sign *gin.RouterGroup) {
	rg.GET("/documents", h.Catalog)
	rg.GET("/clients/:id/documents", h.Status)
	rg.GET("/clients/:id/documents/:kind", h.Get)
	rg.GET("/clients/:id/documents/:kind/signature.png", h.Signature)
	sign.POST("/clients/:id/documents/:kind", h.Sign)
}

func (h *DocumentHandler) Catalog(c *gin.Context) {
	respondOK(c, h.svc.Catalog())
}

func (h *DocumentHandler) Status(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	status, err := h.svc.Status(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, status)
}

type signDocumentRequest struct {
	SignDate string `json:"signdate" binding:"required"`
	// Signature is an already flattened PNG data URL.
	Signature string `json:"signature"`
	// Strokes is a stroke list in either the current or the legacy
	// layout.
	Strokes json.RawMessage `json:"strokes"`
	Fields  map[string]any  `json:"fields"`
}

func (h *DocumentHandler) Sign(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req signDocumentRequest
	if !bindJSON(c, &req) {
		return
	}

	signDate, err := age.Parse(req.SignDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid signdate: use YYYY-MM-DD")
		return
	}

	var strokes drawing.Drawing
	if raw := strings.TrimSpace(string(req.Strokes)); raw != "" && raw != "null" {
		strokes, err = drawing.Decode(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid strokes: "+err.Error())
			return
		}
	}

	doc, err := h.svc.Sign(c.Request.Context(), service.SignDocumentInput{
		ClientID:  id,
		Kind:      document.Kind(c.Param("kind")),
		SignDate:  signDate,
		Signature: req.Signature,
		Strokes:   strokes,
		Fields:    req.Fields,
	}, requestMeta(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, doc)
}

func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	doc, err := h.svc.Get(c.Request.Context(), id, document.Kind(c.Param("kind")), requestMeta(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, doc)
}

// Signature serves the stored signature image. ?width= returns a PNG
// scaled down to that width.
func (h *DocumentHandler) Signature(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	width, ok := parseQueryInt(c, "width", 0)
	if !ok {
		return
	}

	data, mime, err := h.svc.SignatureImage(c.Request.Context(), id, document.Kind(c.Param("kind")), width)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, mime, data)
}
