package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marcrz/naviera-booking/internal/model"
	"github.com/marcrz/naviera-booking/internal/repository"
)

// NotificationHandler serves the user notification inbox. Rows are mostly
// created by the queue consumer but the API allows manual creation too.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
}

func NewNotificationHandler(r *repository.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{Notifications: r}
}

type notificationReq struct {
	UserID uint64 `json:"user_id"`
	Topic  string `json:"topic"`
	Body   string `json:"body"`
}

func (r notificationReq) validate() map[string]string {
	fields := map[string]string{}
	if r.UserID == 0 {
		fields["user_id"] = "This field is required."
	}
	if r.Topic == "" {
		fields["topic"] = "This field is required."
	}
	return fields
}

func (h *NotificationHandler) Create(c echo.Context) error {
	var req notificationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := req.validate(); len(fields) > 0 {
		return fieldErrors(c, fields)
	}
	m := model.Notification{UserID: req.UserID, Topic: req.Topic, Body: req.Body}
	if err := h.Notifications.Create(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return h.detail(c, m.ID, http.StatusCreated)
}

func (h *NotificationHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	return h.detail(c, id, http.StatusOK)
}

func (h *NotificationHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req notificationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if fields := req.validate(); len(fields) > 0 {
		return fieldErrors(c, fields)
	}
	m := model.Notification{ID: id, UserID: req.UserID, Topic: req.Topic, Body: req.Body}
	if err := h.Notifications.Update(c.Request().Context(), &m); err != nil {
		return repoError(c, err)
	}
	return h.detail(c, id, http.StatusOK)
}

func (h *NotificationHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Notifications.Delete(c.Request().Context(), id); err != nil {
		return repoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) List(c echo.Context) error {
	f := repository.NotificationFilter{
		UserID:   qUint64(c, "user"),
		Username: qStr(c, "username"),
		Topic:    qStr(c, "topic"),
		Body:     qStr(c, "body"),
		Created: repository.TimeRange{
			After:  qTime(c, "created_after"),
			Before: qTime(c, "created_before"),
		},
	}
	items, err := h.Notifications.List(c.Request().Context(), f)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *NotificationHandler) detail(c echo.Context, id uint64, status int) error {
	items, err := h.Notifications.List(c.Request().Context(), repository.NotificationFilter{ID: &id})
	if err != nil {
		return repoError(c, err)
	}
	if len(items) == 0 {
		return repoError(c, repository.ErrNotificationNotFound)
	}
	return c.JSON(status, items[0])
}
