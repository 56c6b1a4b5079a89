package handlers

import (
	"net/http"

	"github.com/aidosorynbay/powerbook/internal/apperr"
	"github.com/aidosorynbay/powerbook/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
	Code  string `json:"code" example:"round_not_found"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve models in annotations.
type User = models.User
type Group = models.Group
type Round = models.Round
type RoundParticipant = models.RoundParticipant
type ExchangePair = models.ExchangePair

func respondError(c *gin.Context, err error) {
	e := apperr.From(err)
	c.JSON(e.Status, ErrorResponse{Error: e.Message, Code: e.Code})
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name, Code: "invalid_id"})
		return uuid.Nil, false
	}
	return id, true
}
