package api

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/san-kum/pidlab/internal/control"
	"github.com/san-kum/pidlab/internal/sim"
)

func registerGainEndpoints(rest *echo.Echo, h *handler) {
	group := rest.Group("/gains")

	group.GET("/", h.getGains)
	group.PUT("/", h.putGains)
}

// returns the raw text and the value in effect for every gain
func (h *handler) getGains(c echo.Context) error {
	return c.JSONPretty(http.StatusOK, h.ctrl.Snapshot().Fields, indentationChar)
}

// accepts {"kp": "0.2", ...}; values are text exactly as typed into a field
func (h *handler) putGains(c echo.Context) error {
	var body map[string]string
	if err := c.Bind(&body); err != nil {
		return returnBadRequest(c, err)
	}
	if len(body) == 0 {
		return returnBadRequest(c, fmt.Errorf("no gains given"))
	}

	names := make([]string, 0, len(body))
	for name := range body {
		if _, err := (control.Gains{}).Get(name); err != nil {
			return returnBadRequest(c, err)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	events := make([]sim.Event, 0, len(names))
	for _, name := range names {
		events = append(events, sim.SetGain{Name: name, Text: body[name]})
	}
	return h.send(c, events...)
}
