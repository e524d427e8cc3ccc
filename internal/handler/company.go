package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marcrz/naviera-booking/internal/model"
	"github.com/marcrz/naviera-booking/internal/repository"
)

// CompanyHandler serves the company resource.
type CompanyHandler struct {
	Companies *repository.CompanyRepo
}

func NewCompanyHandler(r *repository.CompanyRepo) *CompanyHandler { return &CompanyHandler{Companies: r} }

type companyReq struct {
	Name        string  `json:"name"`
	Email       *string `json:"email"`
	Address     string  `json:"address"`
	PhoneNumber string  `json:"phoneNumber"`
	Logo        *string `json:"logo"`
	Description string  `json:"description"`
}

func (r companyReq) validate() map[string]string {
	fields := map[string]string{}
	if r.Name == "" {
		fields["name"] = "This field is required."
	}
	if len(r.PhoneNumber) > 15 {
		fields["phoneNumber"] = "Ensure this field has no more than 15 characters."
	}
	return fields
}

func (h *CompanyHandler) Create(c echo.Context) error {
	var req companyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := req.validate(); len(fields) > 0 {
		return fieldErrors(c, fields)
	}
	m := model.Company{
		Name:        req.Name,
		Email:       req.Email,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Logo:        req.Logo,
		Description: req.Description,
	}
	if err := h.Companies.Create(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, companyResp(m))
}

func (h *CompanyHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Companies.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, companyResp(*m))
}

func (h *CompanyHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req companyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := req.validate(); len(fields) > 0 {
		return fieldErrors(c, fields)
	}
	m := model.Company{
		ID:          id,
		Name:        req.Name,
		Email:       req.Email,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
		Logo:        req.Logo,
		Description: req.Description,
	}
	if err := h.Companies.Update(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	got, err := h.Companies.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, companyResp(*got))
}

func (h *CompanyHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Companies.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CompanyHandler) List(c echo.Context) error {
	f := repository.CompanyFilter{
		Name:        qStr(c, "name"),
		Email:       qStr(c, "email"),
		Address:     qStr(c, "address"),
		PhoneNumber: qStr(c, "phoneNumber"),
		Description: qStr(c, "description"),
		HasLogo:     qBool(c, "has_logo"),
		Created: repository.TimeRange{
			After:  qTime(c, "created_after"),
			Before: qTime(c, "created_before"),
		},
	}
	items, err := h.Companies.List(c.Request().Context(), f)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func companyResp(m model.Company) repository.CompanyDetail {
	return repository.CompanyDetail{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Address:     m.Address,
		PhoneNumber: m.PhoneNumber,
		Logo:        m.Logo,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
