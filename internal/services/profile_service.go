package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopfluence/backend/internal/apperr"
	"github.com/shopfluence/backend/internal/models"
)

type ProfileService struct {
	profileRepo  ProfileRepository
	adminUserIDs map[uuid.UUID]struct{}
	log          *zap.Logger
}

// NewProfileService creates the service. adminUserIDs are treated as ADMIN
// regardless of their stored role.
func NewProfileService(profileRepo ProfileRepository, adminUserIDs []uuid.UUID, log *zap.Logger) *ProfileService {
	admins := make(map[uuid.UUID]struct{}, len(adminUserIDs))
	for _, id := range adminUserIDs {
		admins[id] = struct{}{}
	}
	return &ProfileService{profileRepo: profileRepo, adminUserIDs: admins, log: log}
}

// GetMe returns the caller's profile, creating it on first access.
func (s *ProfileService) GetMe(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, err := s.profileRepo.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, ok := s.adminUserIDs[userID]; ok {
		p.Role = models.RoleAdmin
	}
	return p, nil
}

type ProfileFields struct {
	DisplayName *string
	Bio         *string
	Location    *string
	AvatarURL   *string
}

func (s *ProfileService) UpdateMe(ctx context.Context, userID uuid.UUID, fields ProfileFields) (*models.Profile, error) {
	p, err := s.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}
	if fields.DisplayName != nil {
		name := strings.TrimSpace(*fields.DisplayName)
		if len(name) > 80 {
			return nil, apperr.Validation("display name is too long", "display_name")
		}
		p.DisplayName = &name
	}
	if fields.Bio != nil {
		p.Bio = fields.Bio
	}
	if fields.Location != nil {
		p.Location = fields.Location
	}
	if fields.AvatarURL != nil {
		p.AvatarURL = fields.AvatarURL
	}
	if err := s.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.GetMe(ctx, userID)
}

// RoleOf resolves the effective role used for permission checks.
func (s *ProfileService) RoleOf(ctx context.Context, userID uuid.UUID) (string, error) {
	p, err := s.GetMe(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.Role, nil
}
