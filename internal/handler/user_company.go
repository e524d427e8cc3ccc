package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marcrz/naviera-booking/internal/model"
	"github.com/marcrz/naviera-booking/internal/repository"
)

// UserCompanyHandler serves company memberships.
type UserCompanyHandler struct {
	Memberships *repository.UserCompanyRepo
}

func NewUserCompanyHandler(r *repository.UserCompanyRepo) *UserCompanyHandler {
	return &UserCompanyHandler{Memberships: r}
}

type userCompanyReq struct {
	CompanyID uint64  `json:"empresa_id"`
	UserID    uint64  `json:"user_id"`
	RolID     *uint64 `json:"rol_id"`
}

func (r userCompanyReq) validate() map[string]string {
	fields := map[string]string{}
	if r.CompanyID == 0 {
		fields["empresa_id"] = "This field is required."
	}
	if r.UserID == 0 {
		fields["user_id"] = "This field is required."
	}
	return fields
}

func (h *UserCompanyHandler) Create(c echo.Context) error {
	var req userCompanyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := req.validate(); len(fields) > 0 {
		return fieldErrors(c, fields)
	}
	m := model.UserCompany{CompanyID: req.CompanyID, UserID: req.UserID, RolID: req.RolID}
	if err := h.Memberships.Create(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return h.detail(c, m.ID, http.StatusCreated)
}

func (h *UserCompanyHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	return h.detail(c, id, http.StatusOK)
}

func (h *UserCompanyHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req userCompanyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := req.validate(); len(fields) > 0 {
		return fieldErrors(c, fields)
	}
	m := model.UserCompany{ID: id, CompanyID: req.CompanyID, UserID: req.UserID, RolID: req.RolID}
	if err := h.Memberships.Update(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return h.detail(c, id, http.StatusOK)
}

func (h *UserCompanyHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Memberships.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UserCompanyHandler) List(c echo.Context) error {
	f := repository.UserCompanyFilter{
		CompanyID:   qUint64(c, "empresa"),
		CompanyName: qStr(c, "empresa_name"),
		UserID:      qUint64(c, "user"),
		Username:    qStr(c, "username"),
		UserEmail:   qStr(c, "user_email"),
		RolID:       qUint64(c, "rol"),
		RolName:     qStr(c, "rol_name"),
		HasRol:      qBool(c, "has_rol"),
	}
	items, err := h.Memberships.List(c.Request().Context(), f)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *UserCompanyHandler) detail(c echo.Context, id uint64, status int) error {
	items, err := h.Memberships.List(c.Request().Context(), repository.UserCompanyFilter{ID: &id})
	if err != nil {
		return repoError(c, err)
	}
	if len(items) == 0 {
		return repoError(c, repository.ErrUserCompanyNotFound)
	}
	return c.JSON(status, items[0])
}
