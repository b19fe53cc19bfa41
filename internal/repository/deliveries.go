// Package repository provides persistence implementations for the
// notification delivery log using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/julimigwi/Task-Tracker/internal/models"
)

// PostgresDeliveryRepository records notification deliveries in PostgreSQL.
type PostgresDeliveryRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresDeliveryRepository creates a repository over the given
// database connection. db must be a valid *sql.DB connected to a
// PostgreSQL instance.
func NewPostgresDeliveryRepository(db *sql.DB) *PostgresDeliveryRepository {
	return &PostgresDeliveryRepository{DB: db}
}

// RecordDelivery inserts one delivery record.
func (r *PostgresDeliveryRepository) RecordDelivery(ctx context.Context, d models.Delivery) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO deliveries (id, channel, recipient, message, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, d.ID, string(d.Channel), d.Recipient, d.Message, d.Status, d.Error, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("RecordDelivery failed: %w", err)
	}
	return nil
}

// RecentDeliveries returns the newest delivery records, most recent first.
func (r *PostgresDeliveryRepository) RecentDeliveries(ctx context.Context, limit int) ([]models.Delivery, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, channel, recipient, message, status, error, created_at
		  FROM deliveries
		 ORDER BY created_at DESC
		 LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("RecentDeliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []models.Delivery
	for rows.Next() {
		var d models.Delivery
		var channel string
		if err := rows.Scan(&d.ID, &channel, &d.Recipient, &d.Message, &d.Status, &d.Error, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		d.Channel = models.Channel(channel)
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return deliveries, nil
}

// PurgeOlderThan deletes delivery records created before cutoff and
// returns how many were removed.
func (r *PostgresDeliveryRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM deliveries WHERE created_at < $1
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("PurgeOlderThan failed: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}
