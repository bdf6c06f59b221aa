package repository

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	models "github.com/skritek/flightbook/internal"
)

const maxConflictRetries = 3

type DBConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

const bookingColumns = `
        B.id, B.booking_reference, B.user_id, B.booking_date, B.total_price_cents, B.status, B.seats_booked`

const paymentColumns = `
        P.id, P.amount_cents, P.payment_method, P.payment_date, P.status, COALESCE(P.transaction_id, '')`

const bookingJoins = `
        FROM bookings B
        JOIN flights F ON F.id = B.flight_id
        JOIN airports DEP ON DEP.id = F.departure_airport_id
        JOIN airports ARR ON ARR.id = F.arrival_airport_id
        JOIN payments P ON P.booking_id = B.id`

type BookingRepository struct {
	db        DBConn
	inventory *Inventory
	log       *logrus.Logger
}

func NewBookingRepository(db DBConn, inventory *Inventory, log *logrus.Logger) *BookingRepository {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &BookingRepository{db: db, inventory: inventory, log: log}
}

// CreateBooking reserves seats and persists the booking, its passengers and
// the pending payment as one transaction. A failure at any step rolls the
// seat reservation back with the rest, so concurrent readers never observe
// a reservation that did not commit.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	var saved *models.Booking
	err := r.withConflictRetry(ctx, func(ctx context.Context) error {
		var err error
		saved, err = r.createBookingOnce(ctx, booking)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *BookingRepository) createBookingOnce(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err = r.inventory.Reserve(ctx, tx, booking.Flight.ID, booking.SeatsBooked); err != nil {
		return nil, err
	}

	// read the flight under the row lock taken by the reservation so the
	// frozen total price matches the seats just taken
	flight, err := scanFlight(tx.QueryRow(ctx, "SELECT"+flightColumns+flightJoins+" WHERE F.id = $1", booking.Flight.ID))
	if err != nil {
		return nil, err
	}
	booking.Flight = *flight
	booking.TotalPriceCents = flight.PriceCents * int64(booking.SeatsBooked)

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	booking.Status = models.BookingPending
	booking.BookingDate = time.Now().UTC()

	_, err = tx.Exec(ctx, `
        INSERT INTO bookings (id, booking_reference, user_id, flight_id, booking_date, total_price_cents, status, seats_booked)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, booking.ID, booking.Reference, booking.UserID, booking.Flight.ID, booking.BookingDate,
		booking.TotalPriceCents, booking.Status, booking.SeatsBooked)
	if err != nil {
		if isUniqueViolation(err, "booking_reference") {
			return nil, models.ErrDuplicateReference
		}
		return nil, err
	}

	for i := range booking.Passengers {
		p := &booking.Passengers[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.BookingID = booking.ID
		if _, err = tx.Exec(ctx, `
        INSERT INTO passengers (id, booking_id, first_name, last_name, date_of_birth, gender, passport_number)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, p.ID, p.BookingID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.PassportNumber); err != nil {
			return nil, err
		}
	}

	payment := &booking.Payment
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	payment.BookingID = booking.ID
	payment.AmountCents = booking.TotalPriceCents
	payment.PaymentDate = booking.BookingDate
	payment.Status = models.PaymentPending
	if _, err = tx.Exec(ctx, `
        INSERT INTO payments (id, booking_id, amount_cents, payment_method, payment_date, status)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, payment.ID, payment.BookingID, payment.AmountCents, payment.Method, payment.PaymentDate, payment.Status); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepository) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, models.ErrInvalidUUID
	}

	query := "SELECT" + bookingColumns + "," + flightColumns + "," + paymentColumns + bookingJoins + " WHERE B.id = $1"
	booking, err := scanBooking(r.db.QueryRow(ctx, query, bookingID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
        SELECT id, first_name, last_name, date_of_birth, gender, COALESCE(passport_number, '')
        FROM passengers
        WHERE booking_id = $1
        ORDER BY last_name, first_name
    `, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Passenger
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Gender, &p.PassportNumber); err != nil {
			return nil, err
		}
		p.BookingID = booking.ID
		booking.Passengers = append(booking.Passengers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepository) GetBookingsPaginated(ctx context.Context, afterCursor string, limit int) ([]models.Booking, string, error) {
	query := "SELECT" + bookingColumns + "," + flightColumns + "," + paymentColumns + bookingJoins
	var args []interface{}
	var conditions []string

	if afterCursor != "" {
		afterTime, afterUUID, err := decodeCursor(afterCursor)
		if err != nil {
			return nil, "", err
		}
		conditions = append(conditions, "(B.booking_date, B.id) > ($1, $2)")
		args = append(args, afterTime, afterUUID)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY B.booking_date, B.id"
	query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var bookings []models.Booking
	var lastBooking models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, "", err
		}
		bookings = append(bookings, *booking)
		lastBooking = *booking
	}
	if err = rows.Err(); err != nil {
		return nil, "", err
	}

	var nextCursor string
	if len(bookings) == limit {
		nextCursor = encodeCursor(lastBooking.BookingDate, lastBooking.ID)
	}

	return bookings, nextCursor, nil
}

// CancelBooking releases the booked seats and marks the booking cancelled
// in one transaction; a successful payment moves to refunded with it.
func (r *BookingRepository) CancelBooking(ctx context.Context, id string) (*models.Booking, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, models.ErrInvalidUUID
	}
	err = r.withConflictRetry(ctx, func(ctx context.Context) error {
		return r.cancelBookingOnce(ctx, bookingID)
	})
	if err != nil {
		return nil, err
	}
	return r.GetBookingByID(ctx, id)
}

func (r *BookingRepository) cancelBookingOnce(ctx context.Context, bookingID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var flightID uuid.UUID
	var status models.BookingStatus
	var seatsBooked int
	err = tx.QueryRow(ctx, `
        SELECT flight_id, status, seats_booked FROM bookings WHERE id = $1 FOR UPDATE
    `, bookingID).Scan(&flightID, &status, &seatsBooked)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrBookingNotFound
	}
	if err != nil {
		return err
	}

	if status != models.BookingPending && status != models.BookingConfirmed {
		return models.ErrNotCancellable
	}

	if err = r.inventory.Release(ctx, tx, flightID, seatsBooked); err != nil {
		return err
	}

	if _, err = tx.Exec(ctx, `UPDATE bookings SET status = $2 WHERE id = $1`, bookingID, models.BookingCancelled); err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, `
        UPDATE payments SET status = $2 WHERE booking_id = $1 AND status = $3
    `, bookingID, models.PaymentRefunded, models.PaymentSuccess); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		// the release rolls back with the failed commit, but surface the
		// event loudly so operators can verify the inventory
		r.log.WithFields(logrus.Fields{
			"booking_id": bookingID,
			"flight_id":  flightID,
			"seats":      seatsBooked,
		}).WithError(err).Error("booking cancellation commit failed, verify seat inventory")
		return err
	}
	return nil
}

// ProcessPayment moves a pending payment to success and its booking to
// confirmed atomically. Re-processing an already successful payment returns
// the stored record untouched.
func (r *BookingRepository) ProcessPayment(ctx context.Context, paymentID, transactionID string) (*models.Payment, error) {
	pid, err := uuid.Parse(paymentID)
	if err != nil {
		return nil, models.ErrInvalidUUID
	}
	var payment *models.Payment
	err = r.withConflictRetry(ctx, func(ctx context.Context) error {
		var err error
		payment, err = r.processPaymentOnce(ctx, pid, transactionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *BookingRepository) processPaymentOnce(ctx context.Context, paymentID uuid.UUID, transactionID string) (*models.Payment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var p models.Payment
	err = tx.QueryRow(ctx, `
        SELECT id, booking_id, amount_cents, payment_method, payment_date, status, COALESCE(transaction_id, '')
        FROM payments
        WHERE id = $1
        FOR UPDATE
    `, paymentID).Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.Method, &p.PaymentDate, &p.Status, &p.TransactionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}

	if p.Status == models.PaymentSuccess {
		return &p, nil
	}
	if p.Status != models.PaymentPending {
		return nil, models.ErrPaymentNotProcessable
	}

	var bookingStatus models.BookingStatus
	if err = tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, p.BookingID).Scan(&bookingStatus); err != nil {
		return nil, err
	}
	if bookingStatus != models.BookingPending {
		return nil, models.ErrPaymentNotProcessable
	}

	if _, err = tx.Exec(ctx, `
        UPDATE payments SET status = $2, transaction_id = $3 WHERE id = $1
    `, paymentID, models.PaymentSuccess, transactionID); err != nil {
		return nil, err
	}
	if _, err = tx.Exec(ctx, `UPDATE bookings SET status = $2 WHERE id = $1`, p.BookingID, models.BookingConfirmed); err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	p.Status = models.PaymentSuccess
	p.TransactionID = transactionID
	return &p, nil
}

func (r *BookingRepository) withConflictRetry(ctx context.Context, fn func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err = fn(ctx)
		if err == nil || !isRetryableConflict(err) {
			return err
		}
		r.log.WithFields(logrus.Fields{"attempt": attempt}).Warn("retrying after serialization conflict")
	}
	return models.ErrTransientConflict
}

func isRetryableConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, constraint)
}

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	var durationMinutes int64
	err := row.Scan(
		&b.ID, &b.Reference, &b.UserID, &b.BookingDate, &b.TotalPriceCents, &b.Status, &b.SeatsBooked,
		&b.Flight.ID, &b.Flight.FlightNumber, &b.Flight.Airline, &b.Flight.DepartureTime, &b.Flight.ArrivalTime,
		&durationMinutes, &b.Flight.PriceCents, &b.Flight.TotalSeats, &b.Flight.AvailableSeats, &b.Flight.FlightType,
		&b.Flight.DepartureAirport.ID, &b.Flight.DepartureAirport.Code, &b.Flight.DepartureAirport.Name,
		&b.Flight.DepartureAirport.City, &b.Flight.DepartureAirport.Country,
		&b.Flight.ArrivalAirport.ID, &b.Flight.ArrivalAirport.Code, &b.Flight.ArrivalAirport.Name,
		&b.Flight.ArrivalAirport.City, &b.Flight.ArrivalAirport.Country,
		&b.Payment.ID, &b.Payment.AmountCents, &b.Payment.Method, &b.Payment.PaymentDate,
		&b.Payment.Status, &b.Payment.TransactionID,
	)
	if err != nil {
		return nil, err
	}
	b.Flight.Duration = time.Duration(durationMinutes) * time.Minute
	b.Payment.BookingID = b.ID
	return &b, nil
}

func encodeCursor(t time.Time, id uuid.UUID) string {
	cursor := fmt.Sprintf("%s,%s", t.Format(time.RFC3339Nano), id.String())
	return base64.StdEncoding.EncodeToString([]byte(cursor))
}

func decodeCursor(encoded string) (time.Time, uuid.UUID, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return time.Time{}, uuid.Nil, models.ErrInvalidCursor
	}
	parts := strings.Split(string(decodedBytes), ",")
	if len(parts) != 2 {
		return time.Time{}, uuid.Nil, models.ErrInvalidCursor
	}
	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, uuid.Nil, models.ErrInvalidCursor
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return time.Time{}, uuid.Nil, models.ErrInvalidCursor
	}
	return t, id, nil
}
