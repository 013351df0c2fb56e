package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subtracker/subtracker/pkg/apperr"
	"github.com/subtracker/subtracker/pkg/response"
)

// respondError maps the error taxonomy onto HTTP statuses and envelope
// codes. Unclassified errors are treated as transient server failures.
func respondError(c *gin.Context, err error) {
	switch {
	case apperr.IsKind(err, apperr.KindValidation):
		c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
	case apperr.IsKind(err, apperr.KindNotFound):
		c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
	case apperr.IsKind(err, apperr.KindPermission):
		c.JSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeForbidden, err.Error()))
	case apperr.IsKind(err, apperr.KindInvariant):
		c.JSON(http.StatusConflict, response.ErrorT[any](response.APIResponseCodeConflict, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
	}
}
