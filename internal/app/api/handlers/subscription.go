package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/subtracker/subtracker/internal/app/api/middleware"
	subsvc "github.com/subtracker/subtracker/internal/app/service/subscription"
	"github.com/subtracker/subtracker/pkg/response"
	"github.com/subtracker/subtracker/pkg/types"
)

// @Summary      List subscriptions
// @Description  Returns the caller's subscriptions with derived next payment dates.
// @Tags         Subscriptions
// @Produce      json
// @Param        status    query  string  false  "Filter by status"
// @Param        category  query  string  false  "Filter by category"
// @Success      200  {object}  response.APIResponse[[]subscription.View]
// @Router       /api/v1/subscriptions [get]
func ApiListSubscriptions(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := subsvc.ListFilter{}
		if v := c.Query("status"); v != "" {
			status, err := types.ParseSubscriptionStatus(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			filter.Status = status
		}
		if v := c.Query("category"); v != "" {
			category, err := types.ParseCategory(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			filter.Category = category
		}

		views, err := svc.List(c.Request.Context(), mw.UserID(c), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(views))
	}
}

// @Summary      Get subscription
// @Tags         Subscriptions
// @Produce      json
// @Param        id  path  string  true  "Subscription ID"
// @Success      200  {object}  response.APIResponse[subscription.View]
// @Router       /api/v1/subscriptions/{id} [get]
func ApiGetSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.Get(c.Request.Context(), mw.UserID(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(view))
	}
}

// @Summary      Create subscription
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Param        request body subscription.Input true "Subscription fields"
// @Success      200  {object}  response.APIResponse[subscription.View]
// @Router       /api/v1/subscriptions [post]
func ApiCreateSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in subsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		view, err := svc.Create(c.Request.Context(), mw.UserID(c), &in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(view))
	}
}

// @Summary      Update subscription
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Subscription ID"
// @Param        request body subscription.Input true "Subscription fields"
// @Success      200  {object}  response.APIResponse[subscription.View]
// @Router       /api/v1/subscriptions/{id} [put]
func ApiUpdateSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in subsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		view, err := svc.Update(c.Request.Context(), mw.UserID(c), c.Param("id"), &in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(view))
	}
}

// @Summary      Delete subscription
// @Tags         Subscriptions
// @Produce      json
// @Param        id  path  string  true  "Subscription ID"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/subscriptions/{id} [delete]
func ApiDeleteSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), mw.UserID(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterSubscriptionRoutes(r gin.IRouter, svc *subsvc.Service) {
	r.GET("/subscriptions", ApiListSubscriptions(svc))
	r.POST("/subscriptions", ApiCreateSubscription(svc))
	r.GET("/subscriptions/:id", ApiGetSubscription(svc))
	r.PUT("/subscriptions/:id", ApiUpdateSubscription(svc))
	r.DELETE("/subscriptions/:id", ApiDeleteSubscription(svc))
}
