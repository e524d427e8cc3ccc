package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/marcrz/naviera-booking/internal/model"
)

// SeatRepo manages numbered seats under a seat type.
type SeatRepo struct {
	db *sql.DB
}

func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

type SeatFilter struct {
	ID         *uint64
	SeatTypeID *uint64
	ShipID     *uint64
	ShipName   *string // substring
	CompanyID  *uint64
	Number     IntBound
}

func (r *SeatRepo) Create(ctx context.Context, s *model.Seat) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO seats (seat_type_id, number) VALUES (?,?)",
		s.SeatTypeID, s.Number)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT created_at, updated_at FROM seats WHERE id=?", s.ID).
		Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (*model.Seat, error) {
	var s model.Seat
	err := r.db.QueryRowContext(ctx,
		"SELECT id, seat_type_id, number, created_at, updated_at FROM seats WHERE id=?", id).
		Scan(&s.ID, &s.SeatTypeID, &s.Number, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSeatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SeatRepo) Update(ctx context.Context, s *model.Seat) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE seats SET seat_type_id=?, number=? WHERE id=?",
		s.SeatTypeID, s.Number, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, s.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SeatRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM seats WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSeatNotFound
	}
	return nil
}

// GetShipBySeatTx resolves the ship a seat belongs to through its seat type,
// inside the caller's transaction. Trip creation uses this to materialize one
// trip seat per ship seat.
func (r *SeatRepo) GetShipBySeatTx(ctx context.Context, tx *sql.Tx, seatID uint64) (uint64, error) {
	var shipID uint64
	err := tx.QueryRowContext(ctx,
		`SELECT st.ship_id FROM seats se JOIN seat_types st ON st.id = se.seat_type_id WHERE se.id = ?`,
		seatID).Scan(&shipID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrSeatNotFound
	}
	return shipID, err
}

// ListIDsByShipTx returns all seat IDs belonging to a ship, inside the
// caller's transaction.
func (r *SeatRepo) ListIDsByShipTx(ctx context.Context, tx *sql.Tx, shipID uint64) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT se.id FROM seats se JOIN seat_types st ON st.id = se.seat_type_id WHERE st.ship_id = ? ORDER BY se.number`,
		shipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type SeatDetail struct {
	ID         uint64    `json:"id"`
	SeatTypeID uint64    `json:"seatType_id"`
	ShipID     uint64    `json:"ship_id"`
	ShipName   string    `json:"ship_name"`
	CompanyID  uint64    `json:"company_id"`
	Number     int       `json:"number"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (r *SeatRepo) List(ctx context.Context, f SeatFilter) ([]SeatDetail, error) {
	b := sq.Select("se.id", "se.seat_type_id", "st.ship_id", "s.name", "s.company_id", "se.number", "se.created_at", "se.updated_at").
		From("seats se").
		Join("seat_types st ON st.id = se.seat_type_id").
		Join("ships s ON s.id = st.ship_id")
	if f.ID != nil {
		b = b.Where(sq.Eq{"se.id": *f.ID})
	}
	if f.SeatTypeID != nil {
		b = b.Where(sq.Eq{"se.seat_type_id": *f.SeatTypeID})
	}
	if f.ShipID != nil {
		b = b.Where(sq.Eq{"st.ship_id": *f.ShipID})
	}
	if f.ShipName != nil {
		b = b.Where(sq.Like{"s.name": contains(*f.ShipName)})
	}
	if f.CompanyID != nil {
		b = b.Where(sq.Eq{"s.company_id": *f.CompanyID})
	}
	b = f.Number.apply(b, "se.number")

	query, args, err := b.OrderBy("se.id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]SeatDetail, 0)
	for rows.Next() {
		var d SeatDetail
		if err := rows.Scan(&d.ID, &d.SeatTypeID, &d.ShipID, &d.ShipName, &d.CompanyID, &d.Number, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
