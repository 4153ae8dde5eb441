package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/notesphere/backend/internal/common"
)

// parseID reads a uint64 path parameter
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid "+name, err)
		return 0, false
	}
	return id, true
}

// pageParams reads page/limit query parameters with defaults
func pageParams(c *gin.Context) (int, int) {
	page := 1
	if val, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = val
	}
	limit := 20
	if val, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		limit = val
	}
	return page, limit
}

// listMeta builds pagination metadata
func listMeta(page, limit int, total int64) *common.Meta {
	return &common.Meta{Page: page, Limit: limit, Total: total}
}
