package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pairquiz/internal/domain"
	"pairquiz/internal/dto"
)

// ProfileService defines the interface for profile operations.
type ProfileService interface {
	// GetProfile returns the caller's profile, creating the empty row on
	// first access.
	GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error)

	// UpdateProfile sets the caller's display names.
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type profileServiceImpl struct {
	userRepo    domain.UserRepository
	profileRepo domain.ProfileRepository
}

// NewProfileService creates a new instance of ProfileService.
func NewProfileService(userRepo domain.UserRepository, profileRepo domain.ProfileRepository) ProfileService {
	return &profileServiceImpl{userRepo: userRepo, profileRepo: profileRepo}
}

func (s *profileServiceImpl) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("user %s not found", userID))
	}

	profile, err := s.profileRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		// Accounts predating the profile table get their row here.
		if err := s.profileRepo.EnsureProfile(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
		profile = &domain.Profile{ID: userID}
	}

	return toProfileResponse(user, profile), nil
}

func (s *profileServiceImpl) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("user %s not found", userID))
	}

	profile := &domain.Profile{
		ID:        userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := s.profileRepo.UpdateProfile(ctx, profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if err := s.profileRepo.EnsureProfile(ctx, userID); err != nil {
				return nil, fmt.Errorf("failed to create profile: %w", err)
			}
			if err := s.profileRepo.UpdateProfile(ctx, profile); err != nil {
				return nil, fmt.Errorf("failed to update profile: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return toProfileResponse(user, profile), nil
}

func toProfileResponse(user *domain.User, profile *domain.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:          profile.ID,
		Email:       user.Email,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		DisplayName: profile.DisplayName(),
	}
}
