// Package api exposes a running loop over HTTP so gains, target and pointer
// input can be driven from outside the terminal.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/san-kum/pidlab/internal/sim"
)

const (
	EndpointPathAlive = "/alive/"
	indentationChar   = "  "
)

// Controller is satisfied by *sim.Loop.
type Controller interface {
	Send(ctx context.Context, ev sim.Event) error
	Snapshot() sim.Snapshot
}

type Result struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type handler struct {
	ctrl Controller
}

func CreateRestService(ctrl Controller, logRequests bool) *echo.Echo {
	echoRest := echo.New()
	echoRest.HideBanner = true
	echoRest.HidePort = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())
	if logRequests {
		echoRest.Use(middleware.Logger())
	}
	echoRest.Use(middleware.Recover())

	h := &handler{ctrl: ctrl}

	echoRest.GET(EndpointPathAlive, isAlive)
	echoRest.GET("/metrics/", echo.WrapHandler(promhttp.Handler()))
	echoRest.GET("/state/", h.getState)
	echoRest.POST("/restart/", h.restart)

	registerGainEndpoints(echoRest, h)
	registerTargetEndpoints(echoRest, h)
	registerPointerEndpoints(echoRest, h)

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *handler) getState(c echo.Context) error {
	return c.JSONPretty(http.StatusOK, h.ctrl.Snapshot(), indentationChar)
}

func (h *handler) restart(c echo.Context) error {
	return h.send(c, sim.Restart{})
}

// send queues ev and answers 202: the loop applies it on its next iteration.
func (h *handler) send(c echo.Context, events ...sim.Event) error {
	for _, ev := range events {
		if err := h.ctrl.Send(c.Request().Context(), ev); err != nil {
			if errors.Is(err, sim.ErrLoopStopped) {
				return c.JSONPretty(http.StatusServiceUnavailable, &Result{
					Name:    "Unavailable",
					Message: err.Error(),
				}, indentationChar)
			}
			return returnError(c, err)
		}
	}
	return c.NoContent(http.StatusAccepted)
}

func returnBadRequest(c echo.Context, e error) error {
	return c.JSONPretty(http.StatusBadRequest, &Result{
		Name:    "Bad Request",
		Message: e.Error(),
	}, indentationChar)
}

// return the error message of an error
func returnError(c echo.Context, e error) error {
	return c.JSONPretty(http.StatusInternalServerError, &Result{
		Name:    "Unknown Error",
		Message: e.Error(),
	}, indentationChar)
}
