package service

import (
	"instapark/internal/db"
	"instapark/internal/entities"
	"instapark/internal/repository"

	"go.uber.org/zap"
)

type ContactService struct {
	repo *repository.ContactRepository
	log  *zap.Logger
}

func NewContactService(repo *repository.ContactRepository, log *zap.Logger) *ContactService {
	return &ContactService{repo: repo, log: log}
}

// SaveMessage stores a contact-form submission.
func (s *ContactService) SaveMessage(req *entities.ContactRequest) error {
	message := &db.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.repo.Create(message); err != nil {
		s.log.Error("failed to save contact message", zap.Error(err))
		return err
	}
	s.log.Info("contact message received",
		zap.Int("id", message.ID),
		zap.String("subject", message.Subject))
	return nil
}

// ListMessages returns stored messages for the admin view.
func (s *ContactService) ListMessages(limit, offset int) ([]entities.ContactMessageResponse, error) {
	return s.repo.List(limit, offset)
}
