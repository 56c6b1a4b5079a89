package handlers

import (
	"net/http"
	"time"

	"github.com/aidosorynbay/powerbook/internal/middleware"
	"github.com/aidosorynbay/powerbook/internal/services"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groupService *services.GroupService
}

func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,max=120" example:"Powerbook"`
	Slug string `json:"slug" binding:"required,max=80" example:"powerbook"`
}

// CreateGroup godoc
// @Summary      Create a group
// @Description  Creates a group and grants the caller an admin membership
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateGroupRequest true "Group data"
// @Success      201 {object} Group
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "validation"})
		return
	}

	g, err := h.groupService.Create(req.Name, req.Slug, middleware.UserID(c), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// GetGroup godoc
// @Summary      Get group by id
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Group ID"
// @Success      200 {object} Group
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/groups/{id} [get]
func (h *GroupHandler) GetGroup(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	g, err := h.groupService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// GetGroupBySlug godoc
// @Summary      Resolve group by slug
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Group slug"
// @Success      200 {object} Group
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/groups/by-slug/{slug} [get]
func (h *GroupHandler) GetGroupBySlug(c *gin.Context) {
	g, err := h.groupService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// GetCurrentRound godoc
// @Summary      Current month's round of a group
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Group ID"
// @Success      200 {object} Round
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/groups/{id}/current_round [get]
func (h *GroupHandler) GetCurrentRound(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	rnd, err := h.groupService.CurrentRound(id, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	if rnd == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, rnd)
}

// GetCurrentRoundStatus godoc
// @Summary      Round + participation + deadlines snapshot
// @Description  Current round of the group with the caller's participation,
// @Description  the last-day deadlines in UTC, and the next round if visible.
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "Group slug"
// @Success      200 {object} services.CurrentRoundStatus
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/groups/by-slug/{slug}/current-round-status [get]
func (h *GroupHandler) GetCurrentRoundStatus(c *gin.Context) {
	out, err := h.groupService.CurrentRoundStatusBySlug(c.Param("slug"), middleware.UserID(c), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
