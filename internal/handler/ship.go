package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marcrz/naviera-booking/internal/model"
	"github.com/marcrz/naviera-booking/internal/repository"
)

// ShipHandler serves the ship resource.
type ShipHandler struct {
	Ships *repository.ShipRepo
}

func NewShipHandler(r *repository.ShipRepo) *ShipHandler { return &ShipHandler{Ships: r} }

type shipReq struct {
	CompanyID        uint64 `json:"company_id"`
	Name             string `json:"name"`
	ConstructionYear int    `json:"construction_year"`
}

func (r shipReq) validate() map[string]string {
	fields := map[string]string{}
	if r.Name == "" {
		fields["name"] = "This field is required."
	}
	if r.CompanyID == 0 {
		fields["company_id"] = "This field is required."
	}
	if year := time.Now().Year(); r.ConstructionYear < 1800 || r.ConstructionYear > year {
		fields["construction_year"] = fmt.Sprintf("Ensure this value is between 1800 and %d.", year)
	}
	return fields
}

func (h *ShipHandler) Create(c echo.Context) error {
	var req shipReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := req.validate(); len(fields) > 0 {
		return fieldErrors(c, fields)
	}
	m := model.Ship{CompanyID: req.CompanyID, Name: req.Name, ConstructionYear: req.ConstructionYear}
	if err := h.Ships.Create(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return h.detail(c, m.ID, http.StatusCreated)
}

func (h *ShipHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	return h.detail(c, id, http.StatusOK)
}

func (h *ShipHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req shipReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := req.validate(); len(fields) > 0 {
		return fieldErrors(c, fields)
	}
	m := model.Ship{ID: id, CompanyID: req.CompanyID, Name: req.Name, ConstructionYear: req.ConstructionYear}
	if err := h.Ships.Update(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return h.detail(c, id, http.StatusOK)
}

func (h *ShipHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Ships.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ShipHandler) List(c echo.Context) error {
	f := repository.ShipFilter{
		CompanyID:   qUint64(c, "company"),
		CompanyName: qStr(c, "company_name"),
		Name:        qStr(c, "name"),
		Year: repository.IntBound{
			Eq:  qInt(c, "construction_year"),
			Min: qInt(c, "construction_year_min"),
			Max: qInt(c, "construction_year_max"),
		},
	}
	items, err := h.Ships.List(c.Request().Context(), f)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// detail responds with the joined row so single-item responses match the
// list shape.
func (h *ShipHandler) detail(c echo.Context, id uint64, status int) error {
	items, err := h.Ships.List(c.Request().Context(), repository.ShipFilter{ID: &id})
	if err != nil {
		return repoError(c, err)
	}
	if len(items) == 0 {
		return repoError(c, repository.ErrShipNotFound)
	}
	return c.JSON(status, items[0])
}
