package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"instapark/internal/db"
	"instapark/internal/entities"
)

// ErrBookingNotFound is returned when no booking matches the given id.
var ErrBookingNotFound = errors.New("booking not found")

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

func (r *BookingRepository) Create(b *db.Booking) error {
	query := `
		INSERT INTO bookings
			(location, date, start_time, end_time, vehicle_type, selected_slot, status,
			 user_name, user_email, user_phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.DB.QueryRow(query,
		b.Location, b.Date, b.StartTime, b.EndTime, b.VehicleType, b.SelectedSlot,
		b.Status, b.UserName, b.UserEmail, b.UserPhone, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("error inserting booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) Update(b *db.Booking) error {
	query := `
		UPDATE bookings
		SET location = $1, date = $2, start_time = $3, end_time = $4,
			vehicle_type = $5, selected_slot = $6, status = $7,
			user_name = $8, user_email = $9, user_phone = $10, updated_at = $11
		WHERE id = $12`
	res, err := r.DB.Exec(query,
		b.Location, b.Date, b.StartTime, b.EndTime, b.VehicleType, b.SelectedSlot,
		b.Status, b.UserName, b.UserEmail, b.UserPhone, time.Now().UTC(), b.ID)
	if err != nil {
		return fmt.Errorf("error updating booking %d: %w", b.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) GetByID(id int) (*db.Booking, error) {
	query := `
		SELECT id, location, date, start_time, end_time, vehicle_type, selected_slot,
			   status, user_name, user_email, user_phone, created_at, updated_at
		FROM bookings WHERE id = $1`
	var b db.Booking
	err := r.DB.QueryRow(query, id).Scan(
		&b.ID, &b.Location, &b.Date, &b.StartTime, &b.EndTime, &b.VehicleType,
		&b.SelectedSlot, &b.Status, &b.UserName, &b.UserEmail, &b.UserPhone,
		&b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %d: %w", id, err)
	}
	return &b, nil
}

func (r *BookingRepository) UpdateStatus(id int, status string) error {
	res, err := r.DB.Exec(
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("error updating booking %d status: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) Delete(id int) error {
	res, err := r.DB.Exec(`DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting booking %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) List(limit, offset int) (*entities.BookingsList, error) {
	var total int64
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM bookings`).Scan(&total); err != nil {
		return nil, fmt.Errorf("error counting bookings: %w", err)
	}

	query := `
		SELECT id, location, date, start_time, end_time, vehicle_type, selected_slot,
			   status, user_name, user_email, user_phone, created_at, updated_at
		FROM bookings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer rows.Close()

	list := &entities.BookingsList{Total: total, Limit: limit, Offset: offset}
	for rows.Next() {
		var b db.Booking
		if err := rows.Scan(
			&b.ID, &b.Location, &b.Date, &b.StartTime, &b.EndTime, &b.VehicleType,
			&b.SelectedSlot, &b.Status, &b.UserName, &b.UserEmail, &b.UserPhone,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		list.Bookings = append(list.Bookings, toResponse(&b))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating bookings: %w", err)
	}
	return list, nil
}

func toResponse(b *db.Booking) entities.BookingResponse {
	return entities.BookingResponse{
		ID:           b.ID,
		Location:     b.Location,
		Date:         b.Date,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		VehicleType:  b.VehicleType,
		SelectedSlot: b.SelectedSlot,
		Status:       b.Status,
		UserDetails: entities.UserDetails{
			Name:  b.UserName,
			Email: b.UserEmail,
			Phone: b.UserPhone,
		},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
