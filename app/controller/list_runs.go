package main

import (
	"net/http"

	"framechain/pkg/util/context"

	"github.com/labstack/echo/v4"
)

func (h handlers) ListRuns(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	runs, err := h.orch.ListRuns(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, runs)
}
