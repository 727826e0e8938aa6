package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/pedalworks/repairbay/internal/shared/errors"
)

func parseUintPathParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid " + name)
	}
	return uint(v), nil
}

func parseUintQueryRequired(c *gin.Context, key string) (uint, error) {
	v := parseUintQuery(c, key)
	if v == nil {
		return 0, apperrors.NewValidationError(key + " is required")
	}
	return *v, nil
}
