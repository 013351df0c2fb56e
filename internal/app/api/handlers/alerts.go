package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/subtracker/subtracker/internal/app/api/middleware"
	"github.com/subtracker/subtracker/internal/app/service/alerts"
	"github.com/subtracker/subtracker/pkg/response"
)

// @Summary      List active alerts
// @Description  Evaluates the caller's alerts for today, minus today's dismissals.
// @Tags         Alerts
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]alerts.Alert]
// @Router       /api/v1/alerts [get]
func ApiListAlerts(svc *alerts.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		active, err := svc.Active(c.Request.Context(), mw.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(active))
	}
}

type DismissAlertsRequest struct {
	IDs []string `json:"ids"`
}

// @Summary      Dismiss alerts
// @Description  Suppresses the given alert identities for the rest of the day.
// @Tags         Alerts
// @Accept       json
// @Produce      json
// @Param        request body DismissAlertsRequest true "Alert identities"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/alerts/dismiss [post]
func ApiDismissAlerts(svc *alerts.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DismissAlertsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if err := svc.Dismiss(c.Request.Context(), mw.UserID(c), req.IDs); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Dismiss all alerts
// @Description  Suppresses every currently visible alert for the rest of the day.
// @Tags         Alerts
// @Produce      json
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/alerts/dismiss_all [post]
func ApiDismissAllAlerts(svc *alerts.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DismissAll(c.Request.Context(), mw.UserID(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterAlertRoutes(r gin.IRouter, svc *alerts.Service) {
	r.GET("/alerts", ApiListAlerts(svc))
	r.POST("/alerts/dismiss", ApiDismissAlerts(svc))
	r.POST("/alerts/dismiss_all", ApiDismissAllAlerts(svc))
}
