package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voicegenapp/api-voicegen/internal/model"
	"github.com/voicegenapp/api-voicegen/internal/service"
)

// SessionHandler exposes the session lifecycle to the UI
type SessionHandler struct {
	session *service.SessionController
}

func NewSessionHandler(session *service.SessionController) *SessionHandler {
	return &SessionHandler{session: session}
}

// Get godoc
// @Summary Load the current session (remote-authoritative, cache fallback)
// @Tags Session
// @Produce json
// @Success 200 {object} model.SessionResponse
// @Router /session [get]
func (h *SessionHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Refresh(c.Request.Context()))
}

// Register godoc
// @Summary Create an account for this device
// @Tags Session
// @Accept json
// @Produce json
// @Param body body model.RegisterRequest true "Register request"
// @Success 201 {object} model.SessionResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /session/register [post]
func (h *SessionHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	snap, err := h.session.Register(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), model.ErrorResponse{Error: snap.Notice, Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, snap)
}

// Logout godoc
// @Summary Detach this device from its account
// @Tags Session
// @Produce json
// @Success 200 {object} model.SessionResponse
// @Router /session/logout [post]
func (h *SessionHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Logout(c.Request.Context()))
}

// Delete godoc
// @Summary Delete the account and all its data
// @Tags Session
// @Produce json
// @Success 200 {object} model.SessionResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /session [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	snap, err := h.session.DeleteAccount(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), model.ErrorResponse{Error: snap.Notice, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Transfer godoc
// @Summary Move the account to a new device id
// @Tags Session
// @Accept json
// @Produce json
// @Param body body model.TransferRequest true "Transfer request"
// @Success 200 {object} model.SessionResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /session/transfer [post]
func (h *SessionHandler) Transfer(c *gin.Context) {
	var req model.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	snap, err := h.session.Transfer(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), model.ErrorResponse{Error: snap.Notice, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}
