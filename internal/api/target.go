package api

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/san-kum/pidlab/internal/drag"
	"github.com/san-kum/pidlab/internal/geom"
	"github.com/san-kum/pidlab/internal/sim"
)

type PointerRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button string  `json:"button,omitempty"`
}

func (r PointerRequest) point() (geom.Point, error) {
	p := geom.Pt(r.X, r.Y)
	if !p.IsValid() {
		return p, fmt.Errorf("invalid point %v", p)
	}
	return p, nil
}

func parseButton(name string) (drag.Button, error) {
	switch name {
	case "", "primary", "left":
		return drag.ButtonPrimary, nil
	case "secondary", "right":
		return drag.ButtonSecondary, nil
	case "middle":
		return drag.ButtonMiddle, nil
	}
	return 0, fmt.Errorf("unknown button %q", name)
}

func registerTargetEndpoints(rest *echo.Echo, h *handler) {
	rest.PUT("/target/", h.putTarget)
}

func registerPointerEndpoints(rest *echo.Echo, h *handler) {
	group := rest.Group("/pointer")

	group.POST("/down/", h.pointer(func(p geom.Point, b drag.Button) sim.Event {
		return sim.PointerDown{Pos: p, Button: b}
	}))
	group.POST("/move/", h.pointer(func(p geom.Point, _ drag.Button) sim.Event {
		return sim.PointerMove{Pos: p}
	}))
	group.POST("/up/", h.pointer(func(_ geom.Point, b drag.Button) sim.Event {
		return sim.PointerUp{Button: b}
	}))
}

func (h *handler) putTarget(c echo.Context) error {
	var req PointerRequest
	if err := c.Bind(&req); err != nil {
		return returnBadRequest(c, err)
	}
	p, err := req.point()
	if err != nil {
		return returnBadRequest(c, err)
	}
	return h.send(c, sim.SetTarget{Pos: p})
}

func (h *handler) pointer(build func(geom.Point, drag.Button) sim.Event) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req PointerRequest
		if err := c.Bind(&req); err != nil {
			return returnBadRequest(c, err)
		}
		p, err := req.point()
		if err != nil {
			return returnBadRequest(c, err)
		}
		b, err := parseButton(req.Button)
		if err != nil {
			return returnBadRequest(c, err)
		}
		return h.send(c, build(p, b))
	}
}
