package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marcrz/naviera-booking/internal/model"
	"github.com/marcrz/naviera-booking/internal/repository"
)

// PaymentMethodHandler serves the settlement channel catalogue.
type PaymentMethodHandler struct {
	Methods *repository.PaymentMethodRepo
}

func NewPaymentMethodHandler(r *repository.PaymentMethodRepo) *PaymentMethodHandler {
	return &PaymentMethodHandler{Methods: r}
}

type paymentMethodReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *PaymentMethodHandler) Create(c echo.Context) error {
	var req paymentMethodReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" {
		return fieldErrors(c, map[string]string{"name": "This field is required."})
	}
	m := model.PaymentMethod{Name: req.Name, Description: req.Description}
	if err := h.Methods.Create(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, paymentMethodResp(m))
}

func (h *PaymentMethodHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Methods.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, paymentMethodResp(*m))
}

func (h *PaymentMethodHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req paymentMethodReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" {
		return fieldErrors(c, map[string]string{"name": "This field is required."})
	}
	m := model.PaymentMethod{ID: id, Name: req.Name, Description: req.Description}
	if err := h.Methods.Update(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	got, err := h.Methods.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, paymentMethodResp(*got))
}

func (h *PaymentMethodHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Methods.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PaymentMethodHandler) List(c echo.Context) error {
	f := repository.PaymentMethodFilter{
		Name:        qStr(c, "name"),
		Description: qStr(c, "description"),
		Created: repository.TimeRange{
			After:  qTime(c, "created_after"),
			Before: qTime(c, "created_before"),
		},
	}
	items, err := h.Methods.List(c.Request().Context(), f)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func paymentMethodResp(m model.PaymentMethod) repository.PaymentMethodDetail {
	return repository.PaymentMethodDetail{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
