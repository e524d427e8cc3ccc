package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctxWithQuery(rawQuery string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestQueryHelpers(t *testing.T) {
	c := ctxWithQuery("name=ferry&company=7&number=12&price=19.5&paid=true&bad=abc")

	require.NotNil(t, qStr(c, "name"))
	assert.Equal(t, "ferry", *qStr(c, "name"))
	assert.Nil(t, qStr(c, "missing"))

	require.NotNil(t, qUint64(c, "company"))
	assert.Equal(t, uint64(7), *qUint64(c, "company"))
	assert.Nil(t, qUint64(c, "bad"))

	require.NotNil(t, qInt(c, "number"))
	assert.Equal(t, 12, *qInt(c, "number"))

	require.NotNil(t, qFloat(c, "price"))
	assert.Equal(t, 19.5, *qFloat(c, "price"))

	require.NotNil(t, qBool(c, "paid"))
	assert.True(t, *qBool(c, "paid"))
	assert.Nil(t, qBool(c, "bad"))
}

func TestQueryTime(t *testing.T) {
	c := ctxWithQuery("after=2026-01-02T15:04:05Z&sloppy=yesterday")

	got := qTime(c, "after")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), got.UTC())
	assert.Nil(t, qTime(c, "sloppy"))
}

func TestPathID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("15")

	id, ok := pathID(c)
	assert.True(t, ok)
	assert.Equal(t, uint64(15), id)

	c.SetParamValues("abc")
	_, ok = pathID(c)
	assert.False(t, ok)
}
