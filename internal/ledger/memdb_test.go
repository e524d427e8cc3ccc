package ledger

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// In-memory database/sql driver covering the statements the reservation
// ledger's repositories issue. UPDATE results use MySQL's changed-rows
// counting: a matched row whose values do not change reports zero affected
// rows. Transactions snapshot the store on begin and restore it on
// rollback, so the ledger's transactional paths run end to end without a
// server.

type seatRow struct {
	id, tripID, seatID uint64
	state              string
	created, updated   time.Time
}

type bookingRow struct {
	id, tripSeatID, userID    uint64
	reference                 string
	paid                      bool
	status                    string
	expires, created, updated time.Time
}

type paymentRow struct {
	id               uint64
	methodID         *uint64
	bookingID        uint64
	reference        string
	amount           float64
	created, updated time.Time
}

type memStore struct {
	mu            sync.Mutex
	seats         map[uint64]*seatRow
	bookings      map[uint64]*bookingRow
	payments      map[uint64]*paymentRow
	members       map[[2]uint64]bool // {user, company}
	prices        map[uint64]float64 // effective price by trip seat
	companies     map[uint64]uint64  // operating company by trip seat
	lastBookingID uint64
	lastPaymentID uint64
}

func newMemStore() *memStore {
	return &memStore{
		seats:     map[uint64]*seatRow{},
		bookings:  map[uint64]*bookingRow{},
		payments:  map[uint64]*paymentRow{},
		members:   map[[2]uint64]bool{},
		prices:    map[uint64]float64{},
		companies: map[uint64]uint64{},
	}
}

type memSnapshot struct {
	seats         map[uint64]seatRow
	bookings      map[uint64]bookingRow
	payments      map[uint64]paymentRow
	lastBookingID uint64
	lastPaymentID uint64
}

func (s *memStore) snapshot() *memSnapshot {
	sn := &memSnapshot{
		seats:         map[uint64]seatRow{},
		bookings:      map[uint64]bookingRow{},
		payments:      map[uint64]paymentRow{},
		lastBookingID: s.lastBookingID,
		lastPaymentID: s.lastPaymentID,
	}
	for id, r := range s.seats {
		sn.seats[id] = *r
	}
	for id, r := range s.bookings {
		sn.bookings[id] = *r
	}
	for id, r := range s.payments {
		sn.payments[id] = *r
	}
	return sn
}

func (s *memStore) restore(sn *memSnapshot) {
	s.seats = map[uint64]*seatRow{}
	for id, r := range sn.seats {
		r := r
		s.seats[id] = &r
	}
	s.bookings = map[uint64]*bookingRow{}
	for id, r := range sn.bookings {
		r := r
		s.bookings[id] = &r
	}
	s.payments = map[uint64]*paymentRow{}
	for id, r := range sn.payments {
		r := r
		s.payments[id] = &r
	}
	s.lastBookingID = sn.lastBookingID
	s.lastPaymentID = sn.lastPaymentID
}

// driver plumbing

type memDriver struct{}

var memStores = struct {
	sync.Mutex
	byName map[string]*memStore
}{byName: map[string]*memStore{}}

var memStoreSeq atomic.Uint64

func init() { sql.Register("ledgermem", memDriver{}) }

func (memDriver) Open(name string) (driver.Conn, error) {
	memStores.Lock()
	defer memStores.Unlock()
	store, ok := memStores.byName[name]
	if !ok {
		return nil, fmt.Errorf("unknown store %q", name)
	}
	return &memConn{store: store}, nil
}

func openMemDB(t *testing.T, s *memStore) *sql.DB {
	t.Helper()
	name := fmt.Sprintf("store-%d", memStoreSeq.Add(1))
	memStores.Lock()
	memStores.byName[name] = s
	memStores.Unlock()
	db, err := sql.Open("ledgermem", name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type memConn struct {
	store *memStore
}

func (c *memConn) Prepare(q string) (driver.Stmt, error) {
	return &memStmt{store: c.store, query: strings.Join(strings.Fields(q), " ")}, nil
}

func (c *memConn) Close() error { return nil }

func (c *memConn) Begin() (driver.Tx, error) {
	c.store.mu.Lock()
	sn := c.store.snapshot()
	c.store.mu.Unlock()
	return &memTx{store: c.store, snap: sn}, nil
}

type memTx struct {
	store *memStore
	snap  *memSnapshot
}

func (t *memTx) Commit() error { return nil }

func (t *memTx) Rollback() error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.restore(t.snap)
	return nil
}

type memStmt struct {
	store *memStore
	query string
}

func (s *memStmt) Close() error  { return nil }
func (s *memStmt) NumInput() int { return -1 }

func (s *memStmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.store.exec(s.query, args)
}

func (s *memStmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.store.query(s.query, args)
}

type memResult struct {
	lastID, rows int64
}

func (r memResult) LastInsertId() (int64, error) { return r.lastID, nil }
func (r memResult) RowsAffected() (int64, error) { return r.rows, nil }

type memRows struct {
	cols []string
	rows [][]driver.Value
	i    int
}

func (r *memRows) Columns() []string { return r.cols }
func (r *memRows) Close() error      { return nil }

func (r *memRows) Next(dest []driver.Value) error {
	if r.i >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.i])
	r.i++
	return nil
}

func resultRows(cols []string, vals ...[]driver.Value) *memRows {
	return &memRows{cols: cols, rows: vals}
}

func argID(v driver.Value) uint64      { return uint64(v.(int64)) }
func argStr(v driver.Value) string     { return v.(string) }
func argTime(v driver.Value) time.Time { return v.(time.Time) }

func (s *memStore) exec(q string, args []driver.Value) (driver.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case strings.HasPrefix(q, "UPDATE trip_seats SET state=? WHERE id=? AND state=?"):
		to, id, from := argStr(args[0]), argID(args[1]), argStr(args[2])
		var n int64
		if row, ok := s.seats[id]; ok && row.state == from && from != to {
			row.state = to
			n = 1
		}
		return memResult{rows: n}, nil

	case strings.HasPrefix(q, "UPDATE trip_seats SET state=? WHERE id=?"):
		to, id := argStr(args[0]), argID(args[1])
		var n int64
		if row, ok := s.seats[id]; ok && row.state != to {
			row.state = to
			n = 1
		}
		return memResult{rows: n}, nil

	case strings.HasPrefix(q, "INSERT INTO bookings"):
		s.lastBookingID++
		now := time.Now().UTC()
		b := &bookingRow{
			id:         s.lastBookingID,
			tripSeatID: argID(args[0]),
			userID:     argID(args[1]),
			reference:  argStr(args[2]),
			paid:       args[3].(bool),
			status:     argStr(args[4]),
			expires:    argTime(args[5]),
			created:    now,
			updated:    now,
		}
		s.bookings[b.id] = b
		return memResult{lastID: int64(b.id), rows: 1}, nil

	case strings.HasPrefix(q, "UPDATE bookings SET paid=1 WHERE id=?"):
		var n int64
		if b, ok := s.bookings[argID(args[0])]; ok && !b.paid {
			b.paid = true
			n = 1
		}
		return memResult{rows: n}, nil

	case strings.HasPrefix(q, "UPDATE bookings SET status=? WHERE id=?"):
		status, id := argStr(args[0]), argID(args[1])
		var n int64
		if b, ok := s.bookings[id]; ok && b.status != status {
			b.status = status
			n = 1
		}
		return memResult{rows: n}, nil

	case strings.HasPrefix(q, "INSERT INTO payments"):
		var methodID *uint64
		if args[0] != nil {
			m := argID(args[0])
			methodID = &m
		}
		s.lastPaymentID++
		now := time.Now().UTC()
		p := &paymentRow{
			id:        s.lastPaymentID,
			methodID:  methodID,
			bookingID: argID(args[1]),
			reference: argStr(args[2]),
			amount:    args[3].(float64),
			created:   now,
			updated:   now,
		}
		s.payments[p.id] = p
		return memResult{lastID: int64(p.id), rows: 1}, nil
	}
	return nil, fmt.Errorf("unhandled exec: %s", q)
}

var bookingCols = []string{
	"id", "trip_seat_id", "user_id", "reference", "paid", "status",
	"expires_at", "created_at", "updated_at",
}

func bookingVals(b *bookingRow) []driver.Value {
	return []driver.Value{
		int64(b.id), int64(b.tripSeatID), int64(b.userID), b.reference,
		b.paid, b.status, b.expires, b.created, b.updated,
	}
}

func (s *memStore) query(q string, args []driver.Value) (driver.Rows, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case strings.HasPrefix(q, "SELECT id, trip_id, seat_id"):
		cols := []string{"id", "trip_id", "seat_id", "state", "created_at", "updated_at"}
		if row, ok := s.seats[argID(args[0])]; ok {
			return resultRows(cols, []driver.Value{
				int64(row.id), int64(row.tripID), int64(row.seatID),
				row.state, row.created, row.updated,
			}), nil
		}
		return resultRows(cols), nil

	case strings.HasPrefix(q, "SELECT id, trip_seat_id"):
		if strings.Contains(q, "WHERE trip_seat_id=?") {
			tripSeatID, status := argID(args[0]), argStr(args[1])
			var match *bookingRow
			for _, b := range s.bookings {
				if b.tripSeatID == tripSeatID && b.status == status && (match == nil || b.id < match.id) {
					match = b
				}
			}
			if match != nil {
				return resultRows(bookingCols, bookingVals(match)), nil
			}
			return resultRows(bookingCols), nil
		}
		if b, ok := s.bookings[argID(args[0])]; ok {
			return resultRows(bookingCols, bookingVals(b)), nil
		}
		return resultRows(bookingCols), nil

	case strings.HasPrefix(q, "SELECT created_at, updated_at FROM bookings"):
		cols := []string{"created_at", "updated_at"}
		if b, ok := s.bookings[argID(args[0])]; ok {
			return resultRows(cols, []driver.Value{b.created, b.updated}), nil
		}
		return resultRows(cols), nil

	case strings.HasPrefix(q, "SELECT created_at, updated_at FROM payments"):
		cols := []string{"created_at", "updated_at"}
		if p, ok := s.payments[argID(args[0])]; ok {
			return resultRows(cols, []driver.Value{p.created, p.updated}), nil
		}
		return resultRows(cols), nil

	case strings.HasPrefix(q, "SELECT t.base_price"):
		cols := []string{"price"}
		if price, ok := s.prices[argID(args[0])]; ok {
			return resultRows(cols, []driver.Value{price}), nil
		}
		return resultRows(cols), nil

	case strings.HasPrefix(q, "SELECT ro.company_id"):
		cols := []string{"company_id"}
		if company, ok := s.companies[argID(args[0])]; ok {
			return resultRows(cols, []driver.Value{int64(company)}), nil
		}
		return resultRows(cols), nil

	case strings.HasPrefix(q, "SELECT id, method_id"):
		cols := []string{"id", "method_id", "booking_id", "reference", "amount", "created_at", "updated_at"}
		bookingID := argID(args[0])
		for _, p := range s.payments {
			if p.bookingID != bookingID {
				continue
			}
			var method driver.Value
			if p.methodID != nil {
				method = int64(*p.methodID)
			}
			return resultRows(cols, []driver.Value{
				int64(p.id), method, int64(p.bookingID), p.reference,
				p.amount, p.created, p.updated,
			}), nil
		}
		return resultRows(cols), nil

	case strings.HasPrefix(q, "SELECT id FROM bookings"):
		status, cutoff := argStr(args[0]), argTime(args[1])
		limit := args[2].(int64)
		var due []*bookingRow
		for _, b := range s.bookings {
			if b.status == status && !b.paid && !b.expires.After(cutoff) {
				due = append(due, b)
			}
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].expires.Equal(due[j].expires) {
				return due[i].id < due[j].id
			}
			return due[i].expires.Before(due[j].expires)
		})
		if int64(len(due)) > limit {
			due = due[:limit]
		}
		cols := []string{"id"}
		vals := make([][]driver.Value, 0, len(due))
		for _, b := range due {
			vals = append(vals, []driver.Value{int64(b.id)})
		}
		return resultRows(cols, vals...), nil

	case strings.HasPrefix(q, "SELECT 1 FROM user_companies"):
		userID, companyID := argID(args[0]), argID(args[1])
		cols := []string{"1"}
		if s.members[[2]uint64{userID, companyID}] {
			return resultRows(cols, []driver.Value{int64(1)}), nil
		}
		return resultRows(cols), nil
	}
	return nil, fmt.Errorf("unhandled query: %s", q)
}
