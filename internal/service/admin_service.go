package service

import (
	"instapark/internal/booking"
	"instapark/internal/entities"
	apperrors "instapark/internal/errors"
	"instapark/internal/repository"

	"go.uber.org/zap"
)

// AdminService backs the protected admin surface: listing and correcting
// persisted bookings.
type AdminService struct {
	repo *repository.BookingRepository
	log  *zap.Logger
}

func NewAdminService(repo *repository.BookingRepository, log *zap.Logger) *AdminService {
	return &AdminService{repo: repo, log: log}
}

func (s *AdminService) ListBookings(limit, offset int) (*entities.BookingsList, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(limit, offset)
}

// UpdateBookingStatus applies a manual status correction, holding it to the
// same transition rules the lifecycle uses.
func (s *AdminService) UpdateBookingStatus(id int, statusStr string) error {
	target, err := booking.ParseStatus(statusStr)
	if err != nil {
		return apperrors.BadRequest(err.Error())
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		if err == repository.ErrBookingNotFound {
			return apperrors.NotFound("booking not found")
		}
		return err
	}

	current := booking.Status(record.Status)
	if !current.CanTransitionTo(target) {
		return apperrors.Conflict("cannot move booking from " + record.Status + " to " + statusStr)
	}

	if err := s.repo.UpdateStatus(id, target.String()); err != nil {
		return err
	}
	s.log.Info("booking status corrected",
		zap.Int("id", id),
		zap.String("from", record.Status),
		zap.String("to", statusStr))
	return nil
}

func (s *AdminService) DeleteBooking(id int) error {
	if err := s.repo.Delete(id); err != nil {
		if err == repository.ErrBookingNotFound {
			return apperrors.NotFound("booking not found")
		}
		return err
	}
	s.log.Info("booking deleted", zap.Int("id", id))
	return nil
}
