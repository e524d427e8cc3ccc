package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marcrz/naviera-booking/internal/model"
	"github.com/marcrz/naviera-booking/internal/repository"
)

// SeatHandler serves the physical seat resource.
type SeatHandler struct {
	Seats *repository.SeatRepo
}

func NewSeatHandler(r *repository.SeatRepo) *SeatHandler { return &SeatHandler{Seats: r} }

type seatReq struct {
	SeatTypeID uint64 `json:"seatType_id"`
	Number     int    `json:"number"`
}

func (r seatReq) validate() map[string]string {
	fields := map[string]string{}
	if r.SeatTypeID == 0 {
		fields["seatType_id"] = "This field is required."
	}
	if r.Number <= 0 {
		fields["number"] = "Ensure this value is greater than 0."
	}
	return fields
}

func (h *SeatHandler) Create(c echo.Context) error {
	var req seatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := req.validate(); len(fields) > 0 {
		return fieldErrors(c, fields)
	}
	m := model.Seat{SeatTypeID: req.SeatTypeID, Number: req.Number}
	if err := h.Seats.Create(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return h.detail(c, m.ID, http.StatusCreated)
}

func (h *SeatHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	return h.detail(c, id, http.StatusOK)
}

func (h *SeatHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req seatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := req.validate(); len(fields) > 0 {
		return fieldErrors(c, fields)
	}
	m := model.Seat{ID: id, SeatTypeID: req.SeatTypeID, Number: req.Number}
	if err := h.Seats.Update(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return h.detail(c, id, http.StatusOK)
}

func (h *SeatHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Seats.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SeatHandler) List(c echo.Context) error {
	f := repository.SeatFilter{
		SeatTypeID: qUint64(c, "seatType"),
		ShipID:     qUint64(c, "ship"),
		ShipName:   qStr(c, "ship_name"),
		CompanyID:  qUint64(c, "company"),
		Number: repository.IntBound{
			Eq:  qInt(c, "number"),
			Min: qInt(c, "number_min"),
			Max: qInt(c, "number_max"),
		},
	}
	items, err := h.Seats.List(c.Request().Context(), f)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *SeatHandler) detail(c echo.Context, id uint64, status int) error {
	items, err := h.Seats.List(c.Request().Context(), repository.SeatFilter{ID: &id})
	if err != nil {
		return repoError(c, err)
	}
	if len(items) == 0 {
		return repoError(c, repository.ErrSeatNotFound)
	}
	return c.JSON(status, items[0])
}
