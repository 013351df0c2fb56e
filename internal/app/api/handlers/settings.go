package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/subtracker/subtracker/internal/app/api/middleware"
	usersvc "github.com/subtracker/subtracker/internal/app/service/user"
	"github.com/subtracker/subtracker/pkg/response"
	"github.com/subtracker/subtracker/pkg/types"
)

// @Summary      Current user profile
// @Description  Returns the caller's profile, creating it with default settings on first access.
// @Tags         Users
// @Produce      json
// @Success      200  {object}  response.APIResponse[models.User]
// @Router       /api/v1/me [get]
func ApiGetProfile(svc *usersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.GetOrCreate(c.Request.Context(), mw.UserID(c), mw.UserEmail(c), mw.UserName(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(u))
	}
}

// @Summary      Get notification settings
// @Tags         Users
// @Produce      json
// @Success      200  {object}  response.APIResponse[types.NotificationSettings]
// @Router       /api/v1/settings/notifications [get]
func ApiGetNotificationSettings(svc *usersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings := svc.NotificationSettings(c.Request.Context(), mw.UserID(c))
		c.JSON(http.StatusOK, response.OKT(settings))
	}
}

// @Summary      Update notification settings
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request body types.NotificationSettings true "Settings document"
// @Success      200  {object}  response.APIResponse[types.NotificationSettings]
// @Router       /api/v1/settings/notifications [put]
func ApiUpdateNotificationSettings(svc *usersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings types.NotificationSettings
		if err := c.ShouldBindJSON(&settings); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if err := svc.UpdateNotificationSettings(c.Request.Context(), mw.UserID(c), settings); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(settings))
	}
}

func RegisterUserRoutes(r gin.IRouter, svc *usersvc.Service) {
	r.GET("/me", ApiGetProfile(svc))
	r.GET("/settings/notifications", ApiGetNotificationSettings(svc))
	r.PUT("/settings/notifications", ApiUpdateNotificationSettings(svc))
}
