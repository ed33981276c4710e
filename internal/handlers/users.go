package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/idiom-hub/backend/internal/models"
	"github.com/emilythestrangee/idiom-hub/backend/internal/service"
)

type UserHandler struct {
	users      *service.UserService
	favourites *service.FavouriteService
}

func NewUserHandler(users *service.UserService, favourites *service.FavouriteService) *UserHandler {
	return &UserHandler{users: users, favourites: favourites}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.users.Profile(c.Request.Context(), viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var input models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), viewerID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully", "data": user})
}

func (h *UserHandler) GetStats(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context(), viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

func (h *UserHandler) GetFavourites(c *gin.Context) {
	idioms, err := h.favourites.List(c.Request.Context(), viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Favourite idioms retrieved successfully",
		"data":    idioms,
	})
}

func (h *UserHandler) AddFavourite(c *gin.Context) {
	idiomID, ok := parseIDParam(c, "idiomId", "idiom")
	if !ok {
		return
	}
	if err := h.favourites.Add(c.Request.Context(), viewerID(c), idiomID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Added to favourites successfully",
		"data":    gin.H{"idiomId": idiomID, "isFavourite": true},
	})
}

func (h *UserHandler) RemoveFavourite(c *gin.Context) {
	idiomID, ok := parseIDParam(c, "idiomId", "idiom")
	if !ok {
		return
	}
	if err := h.favourites.Remove(c.Request.Context(), viewerID(c), idiomID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Removed from favourites successfully",
		"data":    gin.H{"idiomId": idiomID, "isFavourite": false},
	})
}
