package repository

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// JobRepository backs the scheduled status sweep over persisted bookings.
// Date and times are stored in the client's string form, so the window is
// assembled in SQL before comparing against NOW().
type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

const windowExpr = `to_timestamp(date || ' ' || %s, 'YYYY-MM-DD HH24:MI')`

// GetUpcomingIDsInsideWindow returns upcoming bookings whose window currently
// contains NOW(), i.e. the ones due to become active.
func (r *JobRepository) GetUpcomingIDsInsideWindow() ([]int, error) {
	query := fmt.Sprintf(`
		SELECT id FROM bookings
		WHERE status = 'upcoming'
		  AND %s < NOW()
		  AND %s > NOW()`,
		fmt.Sprintf(windowExpr, "start_time"),
		fmt.Sprintf(windowExpr, "end_time"))
	return r.queryIDs(query)
}

// GetIDsPastEndTime returns upcoming or active bookings whose end has passed,
// i.e. the ones due to become completed.
func (r *JobRepository) GetIDsPastEndTime() ([]int, error) {
	query := fmt.Sprintf(`
		SELECT id FROM bookings
		WHERE status IN ('upcoming', 'active')
		  AND %s <= NOW()`,
		fmt.Sprintf(windowExpr, "end_time"))
	return r.queryIDs(query)
}

// UpdateBookingStatuses moves a batch of bookings to the given status.
func (r *JobRepository) UpdateBookingStatuses(ids []int, newStatus string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.DB.Exec(query, newStatus, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("error updating booking statuses: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading rows affected: %w", err)
	}
	return rowsAffected, nil
}

func (r *JobRepository) queryIDs(query string) ([]int, error) {
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying booking ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning booking id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}
