package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	models "github.com/skritek/flightbook/internal"
)

// DBTx is the transaction-scoped handle inventory operations run against.
// Callers own the transaction; Reserve and Release only commit or roll back
// together with the rest of the caller's work.
type DBTx interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

// Inventory owns the available_seats invariant: the count never goes
// negative and never exceeds total_seats.
type Inventory struct {
	log *logrus.Logger
}

func NewInventory(log *logrus.Logger) *Inventory {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Inventory{log: log}
}

// Reserve takes seats from a flight. The conditional UPDATE acquires the
// row lock and re-checks availability at commit time, so concurrent
// reservations against the same flight serialize on the row while other
// flights stay uncontended.
func (inv *Inventory) Reserve(ctx context.Context, tx DBTx, flightID uuid.UUID, seats int) error {
	if seats < 1 {
		return fmt.Errorf("reserve: seat count must be positive, got %d", seats)
	}
	var remaining int
	err := tx.QueryRow(ctx, `
        UPDATE flights
        SET available_seats = available_seats - $2
        WHERE id = $1 AND available_seats >= $2
        RETURNING available_seats
    `, flightID, seats).Scan(&remaining)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	// no row matched: either the flight does not exist or the seats ran out
	var available int
	if err := tx.QueryRow(ctx, `SELECT available_seats FROM flights WHERE id = $1`, flightID).Scan(&available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrFlightNotFound
		}
		return err
	}
	return models.ErrInsufficientSeats
}

// Release returns seats to a flight. A double release clamps at
// total_seats and logs the overflow instead of corrupting the inventory.
func (inv *Inventory) Release(ctx context.Context, tx DBTx, flightID uuid.UUID, seats int) error {
	if seats < 1 {
		return fmt.Errorf("release: seat count must be positive, got %d", seats)
	}
	var available, total int
	err := tx.QueryRow(ctx, `
        UPDATE flights
        SET available_seats = available_seats + $2
        WHERE id = $1
        RETURNING available_seats, total_seats
    `, flightID, seats).Scan(&available, &total)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrFlightNotFound
	}
	if err != nil {
		return err
	}

	if available > total {
		if _, err := tx.Exec(ctx, `UPDATE flights SET available_seats = total_seats WHERE id = $1`, flightID); err != nil {
			return err
		}
		inv.log.WithFields(logrus.Fields{
			"flight_id": flightID,
			"released":  seats,
			"overflow":  available - total,
		}).Warn("seat release clamped at total_seats")
	}
	return nil
}
