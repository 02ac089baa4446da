package main

import (
	"net/http"

	"framechain/pkg/client"
	"framechain/pkg/util/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (h handlers) Submit(c echo.Context) error {
	var req client.SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := req.RunSpec.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// The run outlives the request, it executes on a background context
	// and is tracked through the store.
	rid := uuid.New().String()
	ctx := context.WithRunID(context.Background(), rid)
	go func() {
		if _, err := h.orch.Run(ctx, req.RunSpec); err != nil {
			ctx.Logger().Errorf("run failed: %s", err)
		}
	}()

	return c.JSON(http.StatusAccepted, client.SubmitResponse{
		RunID: rid,
	})
}
