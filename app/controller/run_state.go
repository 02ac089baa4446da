package main

import (
	"net/http"

	"framechain/pkg/client"
	"framechain/pkg/store"
	"framechain/pkg/util/context"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func (h handlers) RunState(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())

	rid := c.Param(client.RunIDParam)
	rs, err := h.orch.RunState(ctx, rid)
	if err != nil {
		if errors.As(errors.Cause(err), &store.ErrNotFound{}) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, rs)
}
