package handlers

import (
	"net/http"
	"time"

	"github.com/aidosorynbay/powerbook/internal/middleware"
	"github.com/aidosorynbay/powerbook/internal/services"

	"github.com/gin-gonic/gin"
)

type ExchangeHandler struct {
	exchangeService *services.ExchangeService
}

func NewExchangeHandler(exchangeService *services.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchangeService: exchangeService}
}

// MyPairs godoc
// @Summary      Caller's exchange obligations
// @Tags         exchange
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} services.PairView
// @Router       /api/v1/exchange/me [get]
func (h *ExchangeHandler) MyPairs(c *gin.Context) {
	pairs, err := h.exchangeService.ListForUser(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pairs)
}

// MarkGiven godoc
// @Summary      Giver confirms the book was handed over
// @Description  Settable exactly once; a second call returns a conflict.
// @Tags         exchange
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Pair ID"
// @Success      200 {object} ExchangePair
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/exchange/{id}/mark_given [post]
func (h *ExchangeHandler) MarkGiven(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	pair, err := h.exchangeService.MarkGiven(id, middleware.UserID(c), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// MarkReceived godoc
// @Summary      Receiver confirms the book arrived
// @Description  Settable exactly once; a second call returns a conflict.
// @Tags         exchange
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Pair ID"
// @Success      200 {object} ExchangePair
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/exchange/{id}/mark_received [post]
func (h *ExchangeHandler) MarkReceived(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	pair, err := h.exchangeService.MarkReceived(id, middleware.UserID(c), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}
