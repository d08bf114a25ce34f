package handler

import (
	"encoding/base64"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/voicegenapp/api-voicegen/internal/metrics"
	"github.com/voicegenapp/api-voicegen/internal/model"
	"github.com/voicegenapp/api-voicegen/internal/service"
	"github.com/voicegenapp/api-voicegen/pkg/audiostore"
	"github.com/voicegenapp/api-voicegen/pkg/tts"
)

// SpeechHandler runs the generation flow: charge credits, synthesize,
// record history
type SpeechHandler struct {
	ledger *service.LedgerService
	synth  tts.Synthesizer
	clips  audiostore.Storage // nil disables clip storage
}

func NewSpeechHandler(ledger *service.LedgerService, synth tts.Synthesizer, clips audiostore.Storage) *SpeechHandler {
	return &SpeechHandler{ledger: ledger, synth: synth, clips: clips}
}

// Voices godoc
// @Summary Available voice styles
// @Tags Speech
// @Produce json
// @Success 200 {array} model.Voice
// @Router /voices [get]
func (h *SpeechHandler) Voices(c *gin.Context) {
	c.JSON(http.StatusOK, model.Voices)
}

// Generate godoc
// @Summary Generate speech from text
// @Tags Speech
// @Accept json
// @Produce json
// @Param body body model.GenerateRequest true "Text and voice"
// @Success 200 {object} model.GenerateResponse
// @Failure 402 {object} model.ErrorResponse
// @Failure 502 {object} model.ErrorResponse
// @Router /speech [post]
func (h *SpeechHandler) Generate(c *gin.Context) {
	var req model.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}
	if !model.IsValidVoice(req.Voice) {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Unknown voice"})
		return
	}

	rec, _, ok := h.ledger.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Not signed in"})
		return
	}

	// Price the generation before calling upstream so a user who
	// cannot pay never consumes the synthesis quota.
	cost := rec.GenerationCostFor()
	if rec.Credits < cost {
		c.JSON(http.StatusPaymentRequired, model.ErrorResponse{Error: service.ErrInsufficientCredits.Error()})
		return
	}

	audio, err := h.synth.Synthesize(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		c.JSON(http.StatusBadGateway, model.ErrorResponse{Error: "Generation failed", Message: err.Error()})
		return
	}

	// Charge only after a successful synthesis.
	if cost > 0 {
		if rec, err = h.ledger.SpendCredits(c.Request.Context(), cost); err != nil {
			c.JSON(statusFor(err), model.ErrorResponse{Error: err.Error()})
			return
		}
	} else {
		if err := h.ledger.MarkFreeGenerationUsed(c.Request.Context()); err != nil {
			c.JSON(statusFor(err), model.ErrorResponse{Error: err.Error()})
			return
		}
		rec, _, _ = h.ledger.Current()
	}

	entry, err := h.ledger.AppendGeneration(c.Request.Context(), req.Text, req.Voice)
	if err != nil {
		c.JSON(statusFor(err), model.ErrorResponse{Error: err.Error()})
		return
	}

	resp := model.GenerateResponse{
		Entry:    entry,
		Credits:  rec.Credits,
		Charged:  cost,
		AudioB64: base64.StdEncoding.EncodeToString(audio),
	}

	if h.clips != nil {
		clip, err := h.clips.SaveClip(c.Request.Context(), audio, "audio/mpeg")
		if err != nil {
			log.Printf("⚠️  Failed to store audio clip: %v", err)
		} else {
			resp.AudioURL = clip.URL
		}
	}

	metrics.GenerationsTotal.WithLabelValues(req.Voice).Inc()
	c.JSON(http.StatusOK, resp)
}
