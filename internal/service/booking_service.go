package service

import (
	"context"
	"strconv"
	"time"

	"instapark/internal/booking"
	"instapark/internal/db"
	"instapark/internal/entities"
	"instapark/internal/repository"

	"go.uber.org/zap"
)

// BookingService persists bookings and fans out confirmation notifications.
// It also implements booking.Committer so the wizard sessions commit through
// the same path as the public create endpoint.
type BookingService struct {
	repo   *repository.BookingRepository
	sender *SenderService
	log    *zap.Logger
}

func NewBookingService(repo *repository.BookingRepository, sender *SenderService, log *zap.Logger) *BookingService {
	return &BookingService{repo: repo, sender: sender, log: log}
}

// CreateBooking stores the request as a new booking record. An empty status
// defaults to upcoming.
func (s *BookingService) CreateBooking(req *entities.BookingRequest) (int, error) {
	status := req.Status
	if status == "" {
		status = booking.StatusUpcoming.String()
	}
	now := time.Now().UTC()
	record := &db.Booking{
		Location:     req.Location,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		VehicleType:  req.VehicleType,
		SelectedSlot: req.SelectedSlot,
		Status:       status,
		UserName:     req.UserDetails.Name,
		UserEmail:    req.UserDetails.Email,
		UserPhone:    req.UserDetails.Phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(record); err != nil {
		s.log.Error("failed to create booking", zap.Error(err))
		return 0, err
	}

	s.notify(record, "confirmed")
	return record.ID, nil
}

// CommitDraft creates the persisted record on the first commit and refreshes
// it on later ones, returning its ref.
func (s *BookingService) CommitDraft(ctx context.Context, ref string, d *booking.Draft) (string, error) {
	record := draftToRecord(d)
	if ref == "" {
		now := time.Now().UTC()
		record.CreatedAt = now
		record.UpdatedAt = now
		if err := s.repo.Create(record); err != nil {
			return "", err
		}
		s.notify(record, "confirmed")
		return strconv.Itoa(record.ID), nil
	}

	id, err := strconv.Atoi(ref)
	if err != nil {
		return "", err
	}
	record.ID = id
	if err := s.repo.Update(record); err != nil {
		return "", err
	}
	return ref, nil
}

// CommitExtend persists the draft's new end time.
func (s *BookingService) CommitExtend(ctx context.Context, ref string, d *booking.Draft) error {
	if ref == "" {
		// Nothing persisted yet; the extension lives on the draft alone.
		return nil
	}
	id, err := strconv.Atoi(ref)
	if err != nil {
		return err
	}
	record := draftToRecord(d)
	record.ID = id
	return s.repo.Update(record)
}

// CommitCancel marks the persisted record cancelled, if one exists.
func (s *BookingService) CommitCancel(ctx context.Context, ref string, d *booking.Draft) error {
	if ref == "" {
		return nil
	}
	id, err := strconv.Atoi(ref)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(id, booking.StatusCancelled.String()); err != nil {
		return err
	}

	record := draftToRecord(d)
	record.ID = id
	s.notify(record, "cancelled")
	return nil
}

func (s *BookingService) notify(record *db.Booking, status string) {
	if s.sender == nil {
		return
	}
	s.sender.SendBookingEmail(record, status)
	s.sender.SendBookingSMS(record, status)
}

func draftToRecord(d *booking.Draft) *db.Booking {
	return &db.Booking{
		Location:     d.Location,
		Date:         d.Date,
		StartTime:    d.StartTime,
		EndTime:      d.EndTime,
		VehicleType:  string(d.VehicleType),
		SelectedSlot: d.SelectedSlot,
		Status:       d.Status.String(),
		UserName:     d.UserDetails.Name,
		UserEmail:    d.UserDetails.Email,
		UserPhone:    d.UserDetails.Phone,
	}
}
