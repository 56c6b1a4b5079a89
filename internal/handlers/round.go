package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aidosorynbay/powerbook/internal/middleware"
	"github.com/aidosorynbay/powerbook/internal/models"
	"github.com/aidosorynbay/powerbook/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RoundHandler struct {
	roundService       *services.RoundService
	readingService     *services.ReadingService
	leaderboardService *services.LeaderboardService
	groupService       *services.GroupService
	defaultGroupSlug   string
	defaultTimezone    string
}

func NewRoundHandler(
	roundService *services.RoundService,
	readingService *services.ReadingService,
	leaderboardService *services.LeaderboardService,
	groupService *services.GroupService,
	defaultGroupSlug string,
	defaultTimezone string,
) *RoundHandler {
	return &RoundHandler{
		roundService:       roundService,
		readingService:     readingService,
		leaderboardService: leaderboardService,
		groupService:       groupService,
		defaultGroupSlug:   defaultGroupSlug,
		defaultTimezone:    defaultTimezone,
	}
}

type CreateRoundRequest struct {
	GroupID                  uuid.UUID `json:"group_id" binding:"required"`
	Year                     int       `json:"year" binding:"required,min=2020,max=2100" example:"2026"`
	Month                    int       `json:"month" binding:"required,min=1,max=12" example:"3"`
	Timezone                 string    `json:"timezone" example:"Asia/Almaty"`
	RegistrationOpenUntilDay int       `json:"registration_open_until_day" example:"10"`
}

// CreateRound godoc
// @Summary      Create a round (admin)
// @Tags         rounds
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRoundRequest true "Round data"
// @Success      201 {object} Round
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/rounds [post]
func (h *RoundHandler) CreateRound(c *gin.Context) {
	var req CreateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "validation"})
		return
	}

	if req.Timezone == "" {
		req.Timezone = h.defaultTimezone
	}

	rnd, err := h.roundService.Create(services.CreateRoundInput{
		GroupID:                  req.GroupID,
		Year:                     req.Year,
		Month:                    req.Month,
		Timezone:                 req.Timezone,
		RegistrationOpenUntilDay: req.RegistrationOpenUntilDay,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rnd)
}

// OpenRegistration godoc
// @Summary      Open registration (admin)
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Round ID"
// @Success      200 {object} Round
// @Router       /api/v1/rounds/{id}/open_registration [post]
func (h *RoundHandler) OpenRegistration(c *gin.Context) {
	h.setStatus(c, models.RoundStatusRegistrationOpen)
}

// LockRound godoc
// @Summary      Lock the round (admin)
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Round ID"
// @Success      200 {object} Round
// @Router       /api/v1/rounds/{id}/lock [post]
func (h *RoundHandler) LockRound(c *gin.Context) {
	h.setStatus(c, models.RoundStatusLocked)
}

// CloseRound godoc
// @Summary      Close the round (admin)
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Round ID"
// @Success      200 {object} Round
// @Router       /api/v1/rounds/{id}/close [post]
func (h *RoundHandler) CloseRound(c *gin.Context) {
	h.setStatus(c, models.RoundStatusClosed)
}

func (h *RoundHandler) setStatus(c *gin.Context, status string) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rnd, err := h.roundService.SetStatus(id, status, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rnd)
}

// PublishResults godoc
// @Summary      Publish results and generate exchange pairs (admin)
// @Description  Flips closed to results_published exactly once; snapshots the
// @Description  final leaderboard and creates the book exchange pairing.
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Round ID"
// @Success      200 {object} services.PublishSummary
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/rounds/{id}/publish_results [post]
func (h *RoundHandler) PublishResults(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	summary, err := h.roundService.PublishResults(id, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// JoinRound godoc
// @Summary      Join a round
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Round ID"
// @Success      200 {object} RoundParticipant
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/rounds/{id}/join [post]
func (h *RoundHandler) JoinRound(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	p, err := h.roundService.Join(id, middleware.UserID(c), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// LeaveRound godoc
// @Summary      Leave a round before the registration deadline
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Round ID"
// @Success      200 {object} RoundParticipant
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/rounds/{id}/leave [post]
func (h *RoundHandler) LeaveRound(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	p, err := h.roundService.Leave(id, middleware.UserID(c), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type LogMinutesRequest struct {
	Date         string `json:"date" binding:"required" example:"2026-03-10"`
	Minutes      int    `json:"minutes" binding:"min=0,max=1440" example:"45"`
	BookFinished bool   `json:"book_finished"`
	Comment      string `json:"comment" binding:"omitempty,max=500"`
}

// LogMinutes godoc
// @Summary      Upsert one day's reading log
// @Description  Replaces any prior entry for the same day. Last-day writes are
// @Description  only accepted during the correction window and never score.
// @Tags         rounds
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Round ID"
// @Param        request body LogMinutesRequest true "Log data"
// @Success      200 {object} models.ReadingLog
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/rounds/{id}/reading_logs [post]
func (h *RoundHandler) LogMinutes(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req LogMinutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "validation"})
		return
	}

	row, err := h.readingService.LogMinutes(services.LogMinutesInput{
		RoundID:      id,
		UserID:       middleware.UserID(c),
		Date:         req.Date,
		Minutes:      req.Minutes,
		BookFinished: req.BookFinished,
		Comment:      req.Comment,
	}, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// MyCalendar godoc
// @Summary      Caller's day-by-day log for the round
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Round ID"
// @Success      200 {object} services.Calendar
// @Router       /api/v1/rounds/{id}/calendar [get]
func (h *RoundHandler) MyCalendar(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	cal, err := h.readingService.CalendarForUser(id, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

// UserCalendar godoc
// @Summary      Another participant's day-by-day log
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Round ID"
// @Param        user_id path string true "User ID"
// @Success      200 {object} services.Calendar
// @Router       /api/v1/rounds/{id}/calendar/{user_id} [get]
func (h *RoundHandler) UserCalendar(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	userID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}
	cal, err := h.readingService.CalendarForUser(id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

// Leaderboard godoc
// @Summary      Ranked participants of a round
// @Description  Recomputed from the logs on every call; clients poll this.
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Round ID"
// @Success      200 {array} services.LeaderboardEntry
// @Router       /api/v1/rounds/{id}/leaderboard [get]
func (h *RoundHandler) Leaderboard(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	entries, err := h.leaderboardService.Leaderboard(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Results godoc
// @Summary      Final results of a published round
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Round ID"
// @Success      200 {object} services.RoundResults
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/rounds/{id}/results [get]
func (h *RoundHandler) Results(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	out, err := h.roundService.Results(id, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Archive godoc
// @Summary      Yearly per-day minutes with participated months
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        year path int true "Year"
// @Success      200 {object} services.YearlyArchive
// @Router       /api/v1/rounds/archive/{year} [get]
func (h *RoundHandler) Archive(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid year", Code: "validation"})
		return
	}

	g, err := h.groupService.GetBySlug(h.defaultGroupSlug)
	if err != nil {
		respondError(c, err)
		return
	}

	arch, err := h.readingService.Archive(g.ID, middleware.UserID(c), year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, arch)
}

// LastCompleted godoc
// @Summary      Most recently completed round of the default group
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Round
// @Router       /api/v1/rounds/last-completed [get]
func (h *RoundHandler) LastCompleted(c *gin.Context) {
	g, err := h.groupService.GetBySlug(h.defaultGroupSlug)
	if err != nil {
		respondError(c, err)
		return
	}

	rnd, err := h.roundService.LastCompleted(g.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if rnd == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": rnd.ID, "year": rnd.Year, "month": rnd.Month})
}
