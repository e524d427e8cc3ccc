package repository

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContains(t *testing.T) {
	assert.Equal(t, "%Valencia%", contains("Valencia"))
	assert.Equal(t, "%%", contains(""))
}

func TestTimeRangeApply(t *testing.T) {
	after := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)

	b := sq.Select("id").From("bookings")
	b = TimeRange{After: &after, Before: &before}.apply(b, "created_at")
	query, args, err := b.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM bookings WHERE created_at >= ? AND created_at <= ?", query)
	assert.Equal(t, []interface{}{after, before}, args)
}

func TestTimeRangeApplyEmpty(t *testing.T) {
	b := sq.Select("id").From("bookings")
	b = TimeRange{}.apply(b, "created_at")
	query, args, err := b.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM bookings", query)
	assert.Empty(t, args)
}

func TestFloatBoundApply(t *testing.T) {
	min, max := 10.0, 99.5
	b := sq.Select("id").From("trips")
	b = FloatBound{Min: &min, Max: &max}.apply(b, "base_price")
	query, args, err := b.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM trips WHERE base_price >= ? AND base_price <= ?", query)
	assert.Equal(t, []interface{}{min, max}, args)
}

func TestFloatBoundApplyExact(t *testing.T) {
	eq := 25.0
	b := sq.Select("id").From("trips")
	b = FloatBound{Eq: &eq}.apply(b, "base_price")
	query, args, err := b.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM trips WHERE base_price = ?", query)
	assert.Equal(t, []interface{}{eq}, args)
}

func TestIntBoundApply(t *testing.T) {
	min := 1950
	b := sq.Select("id").From("ships")
	b = IntBound{Min: &min}.apply(b, "construction_year")
	query, args, err := b.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM ships WHERE construction_year >= ?", query)
	assert.Equal(t, []interface{}{min}, args)
}

func TestRouteSearchPredicate(t *testing.T) {
	// the OR search used by the route directory
	needle := contains("bilbao")
	b := sq.Select("id").From("routes").
		Where(sq.Or{sq.Like{"origin": needle}, sq.Like{"destiny": needle}})
	query, args, err := b.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM routes WHERE (origin LIKE ? OR destiny LIKE ?)", query)
	assert.Equal(t, []interface{}{"%bilbao%", "%bilbao%"}, args)
}

func TestTripSeatFilterShipAndCompany(t *testing.T) {
	ship, company := uint64(3), uint64(9)
	query, args, err := selectTripSeats(TripSeatFilter{ShipID: &ship, CompanyID: &company}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "st.ship_id = ?")
	assert.Contains(t, query, "ro.company_id = ?")
	assert.Equal(t, []interface{}{ship, company}, args)
}

func TestBookingFilterSailingContext(t *testing.T) {
	number := 12
	company := uint64(4)
	origin, destiny := "Valencia", "Palma"
	query, args, err := selectBookings(BookingFilter{
		SeatNumber: &number,
		CompanyID:  &company,
		Origin:     &origin,
		Destiny:    &destiny,
	}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "se.number = ?")
	assert.Contains(t, query, "ro.company_id = ?")
	assert.Contains(t, query, "ro.origin LIKE ?")
	assert.Contains(t, query, "ro.destiny LIKE ?")
	assert.Equal(t, []interface{}{number, company, "%Valencia%", "%Palma%"}, args)
}

func TestPaymentFilterTripAndCompany(t *testing.T) {
	trip, company := uint64(7), uint64(2)
	query, args, err := selectPayments(PaymentFilter{TripID: &trip, CompanyID: &company}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "JOIN trips t ON t.id = ts.trip_id")
	assert.Contains(t, query, "ts.trip_id = ?")
	assert.Contains(t, query, "ro.company_id = ?")
	assert.Equal(t, []interface{}{trip, company}, args)
}

func TestPaymentMethodFilterCreatedRange(t *testing.T) {
	after := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	query, args, err := selectPaymentMethods(PaymentMethodFilter{
		Created: TimeRange{After: &after},
	}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, query, "created_at >= ?")
	assert.Equal(t, []interface{}{after}, args)
}

func TestHasLogoPredicate(t *testing.T) {
	b := sq.Select("id").From("companies").
		Where(sq.And{sq.NotEq{"logo": nil}, sq.NotEq{"logo": ""}})
	query, _, err := b.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM companies WHERE (logo IS NOT NULL AND logo <> ?)", query)
}
