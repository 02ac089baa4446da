package main

import (
	"net/http"
	"strconv"

	"framechain/pkg/client"
	"framechain/pkg/store"
	"framechain/pkg/util/context"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func (h handlers) SegmentState(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())

	rid := c.Param(client.RunIDParam)
	index, err := strconv.Atoi(c.Param(client.SegmentIndexParam))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "segment index must be an integer")
	}

	ss, err := h.orch.SegmentState(ctx, rid, index)
	if err != nil {
		if errors.As(errors.Cause(err), &store.ErrNotFound{}) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, ss)
}
