package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	mw "github.com/subtracker/subtracker/internal/app/api/middleware"
	"github.com/subtracker/subtracker/internal/app/service/stats"
	subsvc "github.com/subtracker/subtracker/internal/app/service/subscription"
	tlsvc "github.com/subtracker/subtracker/internal/app/service/timeline"
	"github.com/subtracker/subtracker/pkg/response"
)

// @Summary      Spending overview
// @Description  Monthly/yearly totals, counts and category breakdown in the reference currency.
// @Tags         Stats
// @Produce      json
// @Success      200  {object}  response.APIResponse[stats.Overview]
// @Router       /api/v1/stats/overview [get]
func ApiStatsOverview(svc *stats.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		overview, err := svc.Overview(c.Request.Context(), mw.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(overview))
	}
}

// @Summary      Upcoming week
// @Description  Subscriptions due within the next 7 days, date-ascending.
// @Tags         Stats
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]timeline.Entry]
// @Router       /api/v1/timeline/week [get]
func ApiUpcomingWeek(subs *subsvc.Service, tl *tlsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		billable, err := subs.ListBillable(c.Request.Context(), mw.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(tl.UpcomingWeek(billable, time.Now())))
	}
}

// @Summary      Calendar month grid
// @Description  Maps day-of-month to the subscriptions due that day.
// @Tags         Stats
// @Produce      json
// @Param        year   query  int  true  "Year"
// @Param        month  query  int  true  "Month (1-12)"
// @Success      200  {object}  response.APIResponse[map[int][]timeline.Entry]
// @Router       /api/v1/timeline/month [get]
func ApiMonthGrid(subs *subsvc.Service, tl *tlsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid year"))
			return
		}
		month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
		if err != nil || month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid month"))
			return
		}

		billable, err := subs.ListBillable(c.Request.Context(), mw.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		grid := tl.MonthGrid(billable, year, time.Month(month), now)
		c.JSON(http.StatusOK, response.OKT(grid))
	}
}

func RegisterStatsRoutes(r gin.IRouter, svc *stats.Service, subs *subsvc.Service, tl *tlsvc.Service) {
	r.GET("/stats/overview", ApiStatsOverview(svc))
	r.GET("/timeline/week", ApiUpcomingWeek(subs, tl))
	r.GET("/timeline/month", ApiMonthGrid(subs, tl))
}
