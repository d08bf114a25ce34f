package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voicegenapp/api-voicegen/internal/model"
	"github.com/voicegenapp/api-voicegen/internal/service"
	"github.com/voicegenapp/api-voicegen/pkg/ads"
)

// LedgerHandler exposes the credit ledger to the UI
type LedgerHandler struct {
	ledger *service.LedgerService
}

func NewLedgerHandler(ledger *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// Get godoc
// @Summary Current ledger with the remaining daily ad allowance
// @Tags Ledger
// @Produce json
// @Success 200 {object} model.LedgerResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /ledger [get]
func (h *LedgerHandler) Get(c *gin.Context) {
	rec, _, ok := h.ledger.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Not signed in"})
		return
	}

	today := model.Today()
	c.JSON(http.StatusOK, model.LedgerResponse{
		User:                  rec,
		RemainingRewarded:     rec.DailyAdsWatched.Remaining(model.AdRewarded, today),
		RemainingInterstitial: rec.DailyAdsWatched.Remaining(model.AdInterstitial, today),
	})
}

// UpdateUsername godoc
// @Summary Rename the account
// @Tags Ledger
// @Accept json
// @Produce json
// @Param body body model.UpdateUsernameRequest true "Username"
// @Success 200 {object} model.LedgerRecord
// @Failure 401 {object} model.ErrorResponse
// @Router /ledger/username [patch]
func (h *LedgerHandler) UpdateUsername(c *gin.Context) {
	var req model.UpdateUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	rec, err := h.ledger.UpdateUsername(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(statusFor(err), model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Spend godoc
// @Summary Spend credits
// @Tags Ledger
// @Accept json
// @Produce json
// @Param body body model.SpendRequest true "Amount"
// @Success 200 {object} model.LedgerRecord
// @Failure 402 {object} model.ErrorResponse
// @Router /ledger/spend [post]
func (h *LedgerHandler) Spend(c *gin.Context) {
	var req model.SpendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	rec, err := h.ledger.SpendCredits(c.Request.Context(), req.Amount)
	if err != nil {
		c.JSON(statusFor(err), model.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// WatchAd godoc
// @Summary Report a watched ad and collect the reward
// @Tags Ledger
// @Accept json
// @Produce json
// @Param body body model.WatchAdRequest true "Ad result"
// @Success 200 {object} model.WatchAdResponse
// @Failure 503 {object} model.ErrorResponse
// @Router /ledger/ads/watch [post]
func (h *LedgerHandler) WatchAd(c *gin.Context) {
	var req model.WatchAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}
	if !req.Kind.Valid() {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Unknown ad kind"})
		return
	}

	// The ad itself plays on the device; the client reports the
	// outcome. An incomplete view grants nothing and writes nothing.
	player := ads.Reported{Completed: req.Completed}
	completed, _ := player.Play(c.Request.Context(), ads.Kind(req.Kind))
	if !completed {
		rec, _, ok := h.ledger.Current()
		if !ok {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Not signed in"})
			return
		}
		c.JSON(http.StatusOK, model.WatchAdResponse{
			Granted:    false,
			NewBalance: rec.Credits,
			Remaining:  rec.DailyAdsWatched.Remaining(req.Kind, model.Today()),
		})
		return
	}

	granted, balance, err := h.ledger.EarnFromAd(c.Request.Context(), req.Kind)
	if err != nil {
		c.JSON(statusFor(err), model.ErrorResponse{Error: err.Error()})
		return
	}

	rec, _, _ := h.ledger.Current()
	remaining := 0
	if rec != nil {
		remaining = rec.DailyAdsWatched.Remaining(req.Kind, model.Today())
	}
	c.JSON(http.StatusOK, model.WatchAdResponse{
		Granted:    granted,
		NewBalance: balance,
		Remaining:  remaining,
	})
}

// History godoc
// @Summary Generation history, newest first
// @Tags Ledger
// @Produce json
// @Success 200 {array} model.GenerationEntry
// @Failure 401 {object} model.ErrorResponse
// @Router /ledger/history [get]
func (h *LedgerHandler) History(c *gin.Context) {
	rec, _, ok := h.ledger.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Not signed in"})
		return
	}
	c.JSON(http.StatusOK, rec.GenerationHistory)
}
