package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/grandstay/hotelchain-backend/internal/database"
	"github.com/grandstay/hotelchain-backend/internal/middleware"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// AdminHandler handles branch, room-type and room administration
type AdminHandler struct {
	branchRepo *database.BranchRepository
	roomRepo   *database.RoomRepository
	logger     *logrus.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(branchRepo *database.BranchRepository, roomRepo *database.RoomRepository, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		branchRepo: branchRepo,
		roomRepo:   roomRepo,
		logger:     logger,
	}
}

// ============================================================================
// BRANCHES
// ============================================================================

// CreateBranch adds a new hotel branch
// @Summary Create branch
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body models.CreateBranchRequest true "Branch request"
// @Success 201 {object} models.Branch
// @Router /admin/branches [post]
func (h *AdminHandler) CreateBranch(c *gin.Context) {
	var req models.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	branch := &models.Branch{
		Name:     req.Name,
		Location: req.Location,
	}
	if err := h.branchRepo.CreateBranch(branch); err != nil {
		h.logger.WithError(err).Error("Failed to create branch")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create branch"})
		return
	}

	c.JSON(http.StatusCreated, branch)
}

// ListBranches returns all branches
// @Summary List branches
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /branches [get]
func (h *AdminHandler) ListBranches(c *gin.Context) {
	branches, err := h.branchRepo.ListBranches()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list branches")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list branches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"branches": branches,
		"count":    len(branches),
	})
}

// ============================================================================
// ROOM TYPES
// ============================================================================

// CreateRoomType defines a new room category and its nightly rate
// @Summary Create room type
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body models.CreateRoomTypeRequest true "Room type request"
// @Success 201 {object} models.RoomType
// @Router /admin/room-types [post]
func (h *AdminHandler) CreateRoomType(c *gin.Context) {
	var req models.CreateRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rt := &models.RoomType{
		Name:      req.Name,
		BasePrice: req.BasePrice,
	}
	if err := h.branchRepo.CreateRoomType(rt); err != nil {
		h.logger.WithError(err).Error("Failed to create room type")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room type"})
		return
	}

	c.JSON(http.StatusCreated, rt)
}

// ListRoomTypes returns all room types
// @Summary List room types
// @Tags Admin
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /room-types [get]
func (h *AdminHandler) ListRoomTypes(c *gin.Context) {
	roomTypes, err := h.branchRepo.ListRoomTypes()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list room types")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list room types"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_types": roomTypes,
		"count":      len(roomTypes),
	})
}

// ============================================================================
// ROOMS
// ============================================================================

// CreateRoom adds a room to the staff member's branch
// @Summary Create room
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body models.CreateRoomRequest true "Room request"
// @Success 201 {object} models.Room
// @Failure 409 {object} map[string]interface{} "Duplicate room number"
// @Router /admin/rooms [post]
func (h *AdminHandler) CreateRoom(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists || userCtx.BranchID == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "a branch-scoped account is required"})
		return
	}

	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room := &models.Room{
		BranchID:   *userCtx.BranchID,
		RoomNumber: req.RoomNumber,
		RoomTypeID: req.RoomTypeID,
		Status:     models.RoomAvailable,
	}
	if err := h.roomRepo.CreateRoom(room); err != nil {
		if errors.Is(err, database.ErrDuplicateRoom) {
			c.JSON(http.StatusConflict, gin.H{"error": "a room with this number already exists in the branch"})
			return
		}
		h.logger.WithError(err).Error("Failed to create room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// ListRooms returns the rooms of the staff member's branch
// @Summary List rooms
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} map[string]interface{}
// @Router /admin/rooms [get]
func (h *AdminHandler) ListRooms(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists || userCtx.BranchID == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "a branch-scoped account is required"})
		return
	}

	rooms, err := h.roomRepo.ListRoomsByBranch(*userCtx.BranchID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list rooms")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rooms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// GetRoom returns a single room
// @Summary Get room
// @Tags Admin
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param room_id path string true "Room ID"
// @Success 200 {object} models.Room
// @Failure 404 {object} map[string]interface{} "Room not found"
// @Router /admin/rooms/{room_id} [get]
func (h *AdminHandler) GetRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	room, err := h.roomRepo.GetRoomByID(roomID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get room"})
		return
	}
	if room == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	c.JSON(http.StatusOK, room)
}

// SetRoomStatus moves a room between available and maintenance
// @Summary Set room status
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param room_id path string true "Room ID"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{} "Room is occupied"
// @Router /admin/rooms/{room_id}/status [put]
func (h *AdminHandler) SetRoomStatus(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	var req struct {
		Status models.RoomStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if req.Status != models.RoomAvailable && req.Status != models.RoomMaintenance {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be available or maintenance"})
		return
	}

	if err := h.roomRepo.SetRoomStatus(roomID, req.Status); err != nil {
		// Occupied rooms are owned by their booking; surface that as a conflict.
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "room status updated"})
}
