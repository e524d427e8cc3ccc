package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marcrz/naviera-booking/internal/model"
	"github.com/marcrz/naviera-booking/internal/repository"
)

// SeatTypeHandler serves seat classes and their surcharges.
type SeatTypeHandler struct {
	SeatTypes *repository.SeatTypeRepo
}

func NewSeatTypeHandler(r *repository.SeatTypeRepo) *SeatTypeHandler {
	return &SeatTypeHandler{SeatTypes: r}
}

type seatTypeReq struct {
	ShipID          uint64  `json:"ship_id"`
	AdditionalPrice float64 `json:"aditionalPrice"`
}

func (r seatTypeReq) validate() map[string]string {
	fields := map[string]string{}
	if r.ShipID == 0 {
		fields["ship_id"] = "This field is required."
	}
	if r.AdditionalPrice < 0 {
		fields["aditionalPrice"] = "Ensure this value is greater than or equal to 0."
	}
	return fields
}

func (h *SeatTypeHandler) Create(c echo.Context) error {
	var req seatTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := req.validate(); len(fields) > 0 {
		return fieldErrors(c, fields)
	}
	m := model.SeatType{ShipID: req.ShipID, AdditionalPrice: req.AdditionalPrice}
	if err := h.SeatTypes.Create(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return h.detail(c, m.ID, http.StatusCreated)
}

func (h *SeatTypeHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	return h.detail(c, id, http.StatusOK)
}

func (h *SeatTypeHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req seatTypeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := req.validate(); len(fields) > 0 {
		return fieldErrors(c, fields)
	}
	m := model.SeatType{ID: id, ShipID: req.ShipID, AdditionalPrice: req.AdditionalPrice}
	if err := h.SeatTypes.Update(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return h.detail(c, id, http.StatusOK)
}

func (h *SeatTypeHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.SeatTypes.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SeatTypeHandler) List(c echo.Context) error {
	f := repository.SeatTypeFilter{
		ShipID:      qUint64(c, "ship"),
		ShipName:    qStr(c, "ship_name"),
		ShipCompany: qUint64(c, "company"),
		Price: repository.FloatBound{
			Eq:  qFloat(c, "aditionalPrice"),
			Min: qFloat(c, "aditionalPrice_min"),
			Max: qFloat(c, "aditionalPrice_max"),
		},
		IsFree: qBool(c, "is_free"),
	}
	items, err := h.SeatTypes.List(c.Request().Context(), f)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *SeatTypeHandler) detail(c echo.Context, id uint64, status int) error {
	items, err := h.SeatTypes.List(c.Request().Context(), repository.SeatTypeFilter{ID: &id})
	if err != nil {
		return repoError(c, err)
	}
	if len(items) == 0 {
		return repoError(c, repository.ErrSeatTypeNotFound)
	}
	return c.JSON(status, items[0])
}
