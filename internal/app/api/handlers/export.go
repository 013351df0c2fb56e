package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/subtracker/subtracker/internal/app/api/middleware"
	exportsvc "github.com/subtracker/subtracker/internal/app/service/export"
	"github.com/subtracker/subtracker/pkg/response"
)

// @Summary      Calendar export
// @Description  iCalendar feed with one event per billable subscription at its next due date.
// @Tags         Export
// @Produce      text/calendar
// @Success      200  {string}  string
// @Router       /api/v1/export/calendar.ics [get]
func ApiExportICal(svc *exportsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ics, err := svc.ICal(c.Request.Context(), mw.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="subtracker-payments.ics"`)
		c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
	}
}

// @Summary      CSV export
// @Description  Spreadsheet-compatible CSV of all subscriptions, UTF-8 with BOM.
// @Tags         Export
// @Produce      text/csv
// @Success      200  {string}  string
// @Router       /api/v1/export/subscriptions.csv [get]
func ApiExportCSV(svc *exportsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.CSV(c.Request.Context(), mw.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="subtracker-subscriptions.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", out)
	}
}

// @Summary      CSV import
// @Description  Imports subscriptions from a CSV body or multipart "file" field. Partial success: returns a count plus per-row errors.
// @Tags         Export
// @Accept       text/csv
// @Produce      json
// @Success      200  {object}  response.APIResponse[export.ImportResult]
// @Router       /api/v1/import/subscriptions [post]
func ApiImportCSV(svc *exportsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body io.ReadCloser = c.Request.Body
		if file, err := c.FormFile("file"); err == nil {
			f, oerr := file.Open()
			if oerr != nil {
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, oerr.Error()))
				return
			}
			body = f
		}
		defer body.Close()

		result, err := svc.ImportCSV(c.Request.Context(), mw.UserID(c), body)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(result))
	}
}

func RegisterExportRoutes(r gin.IRouter, svc *exportsvc.Service) {
	r.GET("/export/calendar.ics", ApiExportICal(svc))
	r.GET("/export/subscriptions.csv", ApiExportCSV(svc))
	r.POST("/import/subscriptions", ApiImportCSV(svc))
}
