package services

import (
	"fazservico_backend/internal/models"
	"fazservico_backend/internal/repositories"
	"fazservico_backend/internal/services/dto"
	"fazservico_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type NotificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

func (s *NotificationService) List(db *gorm.DB, userID string, page, pageSize int) (*dto.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.notificationRepo.ListByUser(db, userID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		out = append(out, *toNotificationResponse(&notifications[i]))
	}
	return &dto.NotificationListResponse{
		Notifications: out,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *NotificationService) MarkAsRead(db *gorm.DB, userID, notificationID string) error {
	if err := s.notificationRepo.MarkAsRead(db, userID, notificationID); err != nil {
		if err == repositories.ErrNotificationNotFound {
			return apperrors.NewNotFoundError("notification", "Notification not found")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(db *gorm.DB, userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(db, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *NotificationService) UnreadCount(db *gorm.DB, userID string) (int64, error) {
	count, err := s.notificationRepo.UnreadCount(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func toNotificationResponse(n *models.Notification) *dto.NotificationResponse {
	return &dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
