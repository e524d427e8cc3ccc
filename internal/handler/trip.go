package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marcrz/naviera-booking/internal/model"
	"github.com/marcrz/naviera-booking/internal/repository"
)

// TripHandler serves scheduled sailings. Creating one also materializes
// its trip seats (see TripRepo.Create).
type TripHandler struct {
	Trips *repository.TripRepo
}

func NewTripHandler(r *repository.TripRepo) *TripHandler { return &TripHandler{Trips: r} }

type tripReq struct {
	RouteID       uint64  `json:"route_id"`
	SeatID        uint64  `json:"seat_id"`
	BasePrice     float64 `json:"basePrice"`
	DateDeparture string  `json:"dateDeparture"`
}

func (r tripReq) validate() (time.Time, map[string]string) {
	fields := map[string]string{}
	if r.RouteID == 0 {
		fields["route_id"] = "This field is required."
	}
	if r.SeatID == 0 {
		fields["seat_id"] = "This field is required."
	}
	if r.BasePrice < 0 {
		fields["basePrice"] = "Ensure this value is greater than or equal to 0."
	}
	departure, err := time.Parse(time.RFC3339, r.DateDeparture)
	if err != nil {
		fields["dateDeparture"] = "Datetime has wrong format. Use RFC3339."
	}
	return departure, fields
}

func (h *TripHandler) Create(c echo.Context) error {
	var req tripReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	departure, fields := req.validate()
	if len(fields) > 0 {
		return fieldErrors(c, fields)
	}
	m := model.Trip{RouteID: req.RouteID, SeatID: req.SeatID, BasePrice: req.BasePrice, DateDeparture: departure}
	if err := h.Trips.Create(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return h.detail(c, m.ID, http.StatusCreated)
}

func (h *TripHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	return h.detail(c, id, http.StatusOK)
}

func (h *TripHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req tripReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	departure, fields := req.validate()
	if len(fields) > 0 {
		return fieldErrors(c, fields)
	}
	m := model.Trip{ID: id, RouteID: req.RouteID, SeatID: req.SeatID, BasePrice: req.BasePrice, DateDeparture: departure}
	if err := h.Trips.Update(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return h.detail(c, id, http.StatusOK)
}

func (h *TripHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Trips.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TripHandler) List(c echo.Context) error {
	f := repository.TripFilter{
		RouteID:     qUint64(c, "route"),
		Origin:      qStr(c, "origin"),
		Destiny:     qStr(c, "destiny"),
		CompanyID:   qUint64(c, "company"),
		CompanyName: qStr(c, "company_name"),
		SeatID:      qUint64(c, "seat"),
		SeatNumber:  qInt(c, "seat_number"),
		ShipID:      qUint64(c, "ship"),
		BasePrice: repository.FloatBound{
			Eq:  qFloat(c, "basePrice"),
			Min: qFloat(c, "basePrice_min"),
			Max: qFloat(c, "basePrice_max"),
		},
		Departure: repository.TimeRange{
			After:  qTime(c, "dateDeparture_after"),
			Before: qTime(c, "dateDeparture_before"),
		},
		DepartureAt: qTime(c, "dateDeparture"),
	}
	items, err := h.Trips.List(c.Request().Context(), f)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *TripHandler) detail(c echo.Context, id uint64, status int) error {
	items, err := h.Trips.List(c.Request().Context(), repository.TripFilter{ID: &id})
	if err != nil {
		return repoError(c, err)
	}
	if len(items) == 0 {
		return repoError(c, repository.ErrTripNotFound)
	}
	return c.JSON(status, items[0])
}
