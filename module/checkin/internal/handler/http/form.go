package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kazudmb/time-record/module/checkin/domain"
)

type formService interface {
	Roster() []domain.Identity
	Select(id string) error
	RefreshLocation(ctx context.Context) domain.GateResult
	CheckIn(ctx context.Context) *domain.Notification
	State() domain.FormState
}

type selectionRequest struct {
	ID *string `json:"id" binding:"required"`
}

type locationResponse struct {
	Result domain.GateResult `json:"result"`
	State  domain.FormState  `json:"state"`
}

type checkInResponse struct {
	Notification *domain.Notification `json:"notification"`
	State        domain.FormState     `json:"state"`
}

type FormHandler struct {
	formSvc formService
}

func NewFormHandler(formSvc formService) *FormHandler {
	return &FormHandler{formSvc: formSvc}
}

func (h *FormHandler) Register(r *gin.RouterGroup) {
	r.GET("/roster", h.GetRoster)
	r.GET("/form", h.GetState)
	r.PUT("/form/selection", h.Select)
	r.POST("/form/location", h.RefreshLocation)
	r.POST("/form/checkin", h.CheckIn)
}

func (h *FormHandler) GetRoster(c *gin.Context) {
	c.JSON(http.StatusOK, h.formSvc.Roster())
}

func (h *FormHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.formSvc.State())
}

func (h *FormHandler) Select(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	if err := h.formSvc.Select(*req.ID); err != nil {
		if errors.Is(err, domain.ErrUnknownIdentity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown identity"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to select identity"})
		return
	}

	c.JSON(http.StatusOK, h.formSvc.State())
}

func (h *FormHandler) RefreshLocation(c *gin.Context) {
	res := h.formSvc.RefreshLocation(c.Request.Context())
	c.JSON(http.StatusOK, locationResponse{Result: res, State: h.formSvc.State()})
}

func (h *FormHandler) CheckIn(c *gin.Context) {
	n := h.formSvc.CheckIn(c.Request.Context())
	c.JSON(http.StatusOK, checkInResponse{Notification: n, State: h.formSvc.State()})
}
