package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "spendpal/internal/errors"
	"spendpal/internal/models"
)

// friendService handles the friend-link request/accept flow.
type friendService struct {
	db *gorm.DB
}

// NewFriendService creates a new FriendServicer.
func NewFriendService(db *gorm.DB) FriendServicer {
	return &friendService{db: db}
}

// SendRequest creates a pending friend link between the requester and the
// recipient. The pair is stored sorted so each pair has a single link. A
// previously rejected link can be re-requested.
func (s *friendService) SendRequest(requesterID, recipientID string) (*models.FriendLink, error) {
	if requesterID == recipientID {
		return nil, apperrors.ErrSelfFriend
	}

	var recipient models.User
	if err := s.db.Where("id = ?", recipientID).First(&recipient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	a, b := models.SortPair(requesterID, recipientID)

	var existing models.FriendLink
	err := s.db.Where("user_a_id = ? AND user_b_id = ?", a, b).First(&existing).Error
	if err == nil {
		if existing.Status != models.FriendStatusRejected {
			return nil, apperrors.ErrFriendLinkExists
		}
		updates := map[string]interface{}{
			"status":       models.FriendStatusPending,
			"requester_id": requesterID,
		}
		if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	link := &models.FriendLink{
		UserAID:     a,
		UserBID:     b,
		RequesterID: requesterID,
		Status:      models.FriendStatusPending,
	}
	if err := s.db.Create(link).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return link, nil
}

// Respond accepts or rejects a pending friend request. Only the recipient
// (the non-requester side) may respond.
func (s *friendService) Respond(userID, linkID string, accept bool) (*models.FriendLink, error) {
	var link models.FriendLink
	if err := s.db.Where("id = ?", linkID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFriendLinkNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if link.UserAID != userID && link.UserBID != userID {
		return nil, apperrors.ErrFriendLinkNotFound
	}
	if link.RequesterID == userID {
		return nil, apperrors.ErrNotRequestRecipient
	}
	if link.Status != models.FriendStatusPending {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "friend request is not pending")
	}

	status := models.FriendStatusRejected
	if accept {
		status = models.FriendStatusAccepted
	}
	if err := s.db.Model(&link).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &link, nil
}

// ListLinks returns every friend link the user participates in.
func (s *friendService) ListLinks(userID string) ([]models.FriendLink, error) {
	var links []models.FriendLink
	err := s.db.
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&links).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return links, nil
}

// GetFriends returns the accepted friends of the user with display names
// resolved.
func (s *friendService) GetFriends(userID string) ([]Friend, error) {
	var links []models.FriendLink
	err := s.db.
		Where("(user_a_id = ? OR user_b_id = ?) AND status = ?", userID, userID, models.FriendStatusAccepted).
		Find(&links).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(links) == 0 {
		return []Friend{}, nil
	}

	ids := make([]string, 0, len(links))
	for i := range links {
		ids = append(ids, links[i].Other(userID))
	}

	var users []models.User
	if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	names := make(map[string]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].DisplayName
	}

	friends := make([]Friend, 0, len(ids))
	for _, id := range ids {
		friends = append(friends, Friend{ID: id, DisplayName: names[id]})
	}
	return friends, nil
}

// AreFriends reports whether the two users have an accepted friend link.
func (s *friendService) AreFriends(userID, otherID string) (bool, error) {
	a, b := models.SortPair(userID, otherID)
	var count int64
	err := s.db.Model(&models.FriendLink{}).
		Where("user_a_id = ? AND user_b_id = ? AND status = ?", a, b, models.FriendStatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}
