// Package handlers contains the HTTP request handlers for the ChemNomen API.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ChemNomen/internal/interfaces/http/middleware"
	appErrors "github.com/turtacn/ChemNomen/pkg/errors"
	"github.com/turtacn/ChemNomen/pkg/types/common"
)

// respond writes a success envelope with the request ID stamped in.
func respond[T any](c *gin.Context, status int, data T) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = middleware.RequestIDFromContext(c)
	c.JSON(status, resp)
}

// respondPaged writes a success envelope carrying pagination metadata.
func respondPaged[T any](c *gin.Context, status int, data T, page common.Pagination) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = middleware.RequestIDFromContext(c)
	resp.Pagination = &page
	c.JSON(status, resp)
}

// respondError maps an application error onto its HTTP status and writes the
// error envelope.  Internal errors are masked with the code's default
// message so stack details never leak to clients.
func respondError(c *gin.Context, err error) {
	code := appErrors.GetCode(err)
	status := code.HTTPStatus()

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = code.DefaultMessage()
	}

	resp := common.NewErrorResponse(code.String(), message)
	resp.RequestID = middleware.RequestIDFromContext(c)
	c.JSON(status, resp)
}

// parsePagination extracts page and page_size query parameters, clamping
// page_size to 100.
func parsePagination(c *gin.Context) (int, int) {
	page := 1
	pageSize := 20

	if v := c.Query("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := c.Query("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= 100 {
			pageSize = ps
		}
	}
	return page, pageSize
}

// boolQuery reads a boolean query parameter, returning def when absent or
// unparsable.
func boolQuery(c *gin.Context, name string, def bool) bool {
	v := c.Query(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
