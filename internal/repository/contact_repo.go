package repository

import (
	"database/sql"
	"fmt"

	"instapark/internal/db"
	"instapark/internal/entities"
)

type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(database *sql.DB) *ContactRepository {
	return &ContactRepository{DB: database}
}

func (r *ContactRepository) Create(m *db.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (name, email, subject, message, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`
	err := r.DB.QueryRow(query, m.Name, m.Email, m.Subject, m.Message).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting contact message: %w", err)
	}
	return nil
}

func (r *ContactRepository) List(limit, offset int) ([]entities.ContactMessageResponse, error) {
	query := `
		SELECT id, name, email, subject, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing contact messages: %w", err)
	}
	defer rows.Close()

	var messages []entities.ContactMessageResponse
	for rows.Next() {
		var m entities.ContactMessageResponse
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning contact message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating contact messages: %w", err)
	}
	return messages, nil
}
