package service

import (
	"fmt"

	"instapark/internal/booking"
	"instapark/internal/repository"

	"go.uber.org/zap"
)

// JobService is the scheduled counterpart of the session evaluator: it sweeps
// persisted bookings whose window boundary has passed and advances their
// status with the same rules the wizard applies in memory.
type JobService struct {
	repo *repository.JobRepository
	log  *zap.Logger
}

func NewJobService(repo *repository.JobRepository, log *zap.Logger) *JobService {
	return &JobService{repo: repo, log: log}
}

// Run performs one sweep. Completion is applied before activation so a
// booking whose whole window has passed goes straight to completed.
func (j *JobService) Run() {
	if err := j.CompleteFinishedBookings(); err != nil {
		j.log.Error("status sweep: completing finished bookings", zap.Error(err))
	}
	if err := j.ActivateStartedBookings(); err != nil {
		j.log.Error("status sweep: activating started bookings", zap.Error(err))
	}
}

// ActivateStartedBookings moves upcoming bookings whose window contains the
// current time to active.
func (j *JobService) ActivateStartedBookings() error {
	ids, err := j.repo.GetUpcomingIDsInsideWindow()
	if err != nil {
		return fmt.Errorf("fetching upcoming bookings inside window: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	updated, err := j.repo.UpdateBookingStatuses(ids, booking.StatusActive.String())
	if err != nil {
		return fmt.Errorf("activating bookings: %w", err)
	}
	j.log.Info("bookings activated", zap.Int64("count", updated), zap.Ints("ids", ids))
	return nil
}

// CompleteFinishedBookings moves upcoming or active bookings past their end
// time to completed.
func (j *JobService) CompleteFinishedBookings() error {
	ids, err := j.repo.GetIDsPastEndTime()
	if err != nil {
		return fmt.Errorf("fetching bookings past end time: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	updated, err := j.repo.UpdateBookingStatuses(ids, booking.StatusCompleted.String())
	if err != nil {
		return fmt.Errorf("completing bookings: %w", err)
	}
	j.log.Info("bookings completed", zap.Int64("count", updated), zap.Ints("ids", ids))
	return nil
}
