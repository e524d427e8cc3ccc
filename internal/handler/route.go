package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/marcrz/naviera-booking/internal/model"
	"github.com/marcrz/naviera-booking/internal/repository"
)

// RouteHandler serves sailing corridors.
type RouteHandler struct {
	Routes *repository.RouteRepo
}

func NewRouteHandler(r *repository.RouteRepo) *RouteHandler { return &RouteHandler{Routes: r} }

type routeReq struct {
	CompanyID uint64 `json:"company_id"`
	Origin    string `json:"origin"`
	Destiny   string `json:"destiny"`
}

func (r routeReq) validate() map[string]string {
	fields := map[string]string{}
	if r.CompanyID == 0 {
		fields["company_id"] = "This field is required."
	}
	if r.Origin == "" {
		fields["origin"] = "This field is required."
	}
	if r.Destiny == "" {
		fields["destiny"] = "This field is required."
	}
	if r.Origin != "" && strings.EqualFold(r.Origin, r.Destiny) {
		fields["destiny"] = "Origin and destiny must differ."
	}
	return fields
}

func (h *RouteHandler) Create(c echo.Context) error {
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := req.validate(); len(fields) > 0 {
		return fieldErrors(c, fields)
	}
	m := model.Route{CompanyID: req.CompanyID, Origin: req.Origin, Destiny: req.Destiny}
	if err := h.Routes.Create(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return h.detail(c, m.ID, http.StatusCreated)
}

func (h *RouteHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	return h.detail(c, id, http.StatusOK)
}

func (h *RouteHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := req.validate(); len(fields) > 0 {
		return fieldErrors(c, fields)
	}
	m := model.Route{ID: id, CompanyID: req.CompanyID, Origin: req.Origin, Destiny: req.Destiny}
	if err := h.Routes.Update(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return h.detail(c, id, http.StatusOK)
}

func (h *RouteHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Routes.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RouteHandler) List(c echo.Context) error {
	f := repository.RouteFilter{
		CompanyID:    qUint64(c, "company"),
		CompanyName:  qStr(c, "company_name"),
		Origin:       qStr(c, "origin"),
		Destiny:      qStr(c, "destiny"),
		OriginExact:  qStr(c, "origin_exact"),
		DestinyExact: qStr(c, "destiny_exact"),
		Search:       qStr(c, "route_search"),
	}
	items, err := h.Routes.List(c.Request().Context(), f)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *RouteHandler) detail(c echo.Context, id uint64, status int) error {
	items, err := h.Routes.List(c.Request().Context(), repository.RouteFilter{ID: &id})
	if err != nil {
		return repoError(c, err)
	}
	if len(items) == 0 {
		return repoError(c, repository.ErrRouteNotFound)
	}
	return c.JSON(status, items[0])
}
