package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/client"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/service"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/age"
)

type ClientHandler struct {
	svc *service.ClientService
}

func NewClientHandler(svc *service.ClientService) *ClientHandler {
	return &ClientHandler{svc: svc}
}

func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/clients", h.Create)
	rg.GET("/clients/:id", h.Get)
}

type createClientRequest struct {
	FirstName    string `json:"first_name" binding:"required,max=50"`
	MiddleName   string `json:"middle_name" binding:"max=50"`
	LastName     string `json:"last_name" binding:"required,max=50"`
	DateOfBirth  string `json:"date_of_birth" binding:"required"`
	Email        string `json:"email" binding:"omitempty,email,max=50"`
	Phone        string `json:"phone" binding:"max=20"`
	GuardianName string `json:"guardian_name" binding:"max=100"`
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req createClientRequest
	if !bindJSON(c, &req) {
		return
	}

	dob, err := age.Parse(req.DateOfBirth)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date_of_birth: use YYYY-MM-DD")
		return
	}

	view, err := h.svc.CreateClient(c.Request.Context(), &client.CreateClientCommand{
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		DateOfBirth:  dob,
		Email:        req.Email,
		Phone:        req.Phone,
		GuardianName: req.GuardianName,
	}, requestMeta(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, view)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	view, err := h.svc.GetClient(c.Request.Context(), id, requestMeta(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, view)
}
