package handler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShipValidation(t *testing.T) {
	year := time.Now().Year()

	ok := shipReq{CompanyID: 1, Name: "Estrella del Mar", ConstructionYear: 1950}
	assert.Empty(t, ok.validate())

	tooOld := shipReq{CompanyID: 1, Name: "Galeón", ConstructionYear: 1799}
	assert.Equal(t, map[string]string{
		"construction_year": fmt.Sprintf("Ensure this value is between 1800 and %d.", year),
	}, tooOld.validate())

	future := shipReq{CompanyID: 1, Name: "Futuro", ConstructionYear: year + 1}
	assert.Contains(t, future.validate(), "construction_year")

	boundary := shipReq{CompanyID: 1, Name: "Centinela", ConstructionYear: year}
	assert.Empty(t, boundary.validate())

	missing := shipReq{ConstructionYear: 1950}
	fields := missing.validate()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "company_id")
}

func TestSeatTypeValidation(t *testing.T) {
	assert.Empty(t, seatTypeReq{ShipID: 1, AdditionalPrice: 0}.validate())
	assert.Contains(t, seatTypeReq{ShipID: 1, AdditionalPrice: -0.01}.validate(), "aditionalPrice")
	assert.Contains(t, seatTypeReq{AdditionalPrice: 5}.validate(), "ship_id")
}

func TestSeatValidation(t *testing.T) {
	assert.Empty(t, seatReq{SeatTypeID: 1, Number: 1}.validate())
	assert.Contains(t, seatReq{SeatTypeID: 1, Number: 0}.validate(), "number")
	assert.Contains(t, seatReq{SeatTypeID: 1, Number: -3}.validate(), "number")
}

func TestRouteValidation(t *testing.T) {
	assert.Empty(t, routeReq{CompanyID: 1, Origin: "Valencia", Destiny: "Palma"}.validate())

	same := routeReq{CompanyID: 1, Origin: "Valencia", Destiny: "valencia"}
	assert.Equal(t, map[string]string{"destiny": "Origin and destiny must differ."}, same.validate())

	missing := routeReq{CompanyID: 1}
	fields := missing.validate()
	assert.Contains(t, fields, "origin")
	assert.Contains(t, fields, "destiny")
}

func TestTripValidation(t *testing.T) {
	departure, fields := tripReq{RouteID: 1, SeatID: 2, BasePrice: 30, DateDeparture: "2026-09-01T08:00:00Z"}.validate()
	assert.Empty(t, fields)
	assert.Equal(t, time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC), departure)

	_, fields = tripReq{RouteID: 1, SeatID: 2, BasePrice: -1, DateDeparture: "2026-09-01T08:00:00Z"}.validate()
	assert.Contains(t, fields, "basePrice")

	_, fields = tripReq{RouteID: 1, SeatID: 2, BasePrice: 0, DateDeparture: "tomorrow"}.validate()
	assert.Contains(t, fields, "dateDeparture")
}

func TestCompanyValidation(t *testing.T) {
	assert.Empty(t, companyReq{Name: "Naviera Sur", PhoneNumber: "123456789012345"}.validate())
	assert.Contains(t, companyReq{Name: "Naviera Sur", PhoneNumber: "1234567890123456"}.validate(), "phoneNumber")
	assert.Contains(t, companyReq{}.validate(), "name")
}
