package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pairquiz/internal/domain"
	"pairquiz/internal/dto"
	"pairquiz/internal/logger"
	"pairquiz/internal/util"

	"go.uber.org/zap"
)

// maxCodeAttempts bounds the retry loop on linking-code collisions. The
// code space holds 36^6 values, so hitting the bound means the store is
// in a pathological state, not that the caller was unlucky.
const maxCodeAttempts = 10

// PairingService defines the interface for partner linking operations.
type PairingService interface {
	// GenerateLinkingCode opens a fresh invite for the user, replacing
	// any invite the user already had open.
	GenerateLinkingCode(ctx context.Context, userID string) (*dto.LinkingCodeResponse, error)

	// ClaimLinkingCode links the caller into the couple holding code.
	ClaimLinkingCode(ctx context.Context, userID, code string) (*dto.CoupleResponse, error)

	// GetCouples returns the caller's linked couples with partner
	// profiles attached.
	GetCouples(ctx context.Context, userID string) (*dto.CouplesResponse, error)
}

type pairingServiceImpl struct {
	coupleRepo  domain.CoupleRepository
	profileRepo domain.ProfileRepository
	txManager   domain.TransactionManager
}

// NewPairingService creates a new instance of PairingService.
func NewPairingService(
	coupleRepo domain.CoupleRepository,
	profileRepo domain.ProfileRepository,
	txManager domain.TransactionManager,
) PairingService {
	return &pairingServiceImpl{
		coupleRepo:  coupleRepo,
		profileRepo: profileRepo,
		txManager:   txManager,
	}
}

// GenerateLinkingCode creates a Pending couple for the user under a fresh
// code. The caller's previous open invite is removed in the same
// transaction, so at most one invite per user is ever claimable. Code
// collisions are resolved by the store's uniqueness constraint and a
// bounded retry, never by a read-then-write pre-check.
func (s *pairingServiceImpl) GenerateLinkingCode(ctx context.Context, userID string) (*dto.LinkingCodeResponse, error) {
	appLogger := logger.Get()
	var created *domain.Couple

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		removed, err := s.coupleRepo.DeletePendingCouplesByUser(txCtx, userID)
		if err != nil {
			return err
		}
		if removed > 0 {
			appLogger.Info("Replaced open invite", zap.String("userID", userID), zap.Int64("removed", removed))
		}

		for attempt := 0; attempt < maxCodeAttempts; attempt++ {
			code, err := util.RandomCode(domain.LinkingCodeLength, domain.LinkingCodeAlphabet)
			if err != nil {
				return domain.NewInternalError("failed to generate linking code", err)
			}
			couple := &domain.Couple{
				ID:          util.NewULID(),
				User1ID:     userID,
				LinkingCode: &code,
			}
			err = s.coupleRepo.CreatePendingCouple(txCtx, couple)
			if err == nil {
				created = couple
				return nil
			}
			if !errors.Is(err, domain.ErrLinkingCodeTaken) {
				return err
			}
			appLogger.Warn("Linking code collision, retrying",
				zap.String("userID", userID), zap.Int("attempt", attempt+1))
		}
		return domain.NewCodeGenerationExhaustedError(maxCodeAttempts)
	})
	if err != nil {
		return nil, err
	}

	return &dto.LinkingCodeResponse{LinkingCode: *created.LinkingCode}, nil
}

// ClaimLinkingCode links the caller into the pending couple holding code.
// The repository's single conditional update arbitrates races; this layer
// only normalizes input and maps outcomes onto the error taxonomy. The
// three failure modes are never collapsed into one another.
func (s *pairingServiceImpl) ClaimLinkingCode(ctx context.Context, userID, code string) (*dto.CoupleResponse, error) {
	appLogger := logger.Get()
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != domain.LinkingCodeLength {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("linking code must be %d characters", domain.LinkingCodeLength))
	}

	var result *domain.ClaimResult
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		result, err = s.coupleRepo.ClaimCode(txCtx, userID, code)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to claim linking code: %w", err)
	}

	switch result.Outcome {
	case domain.ClaimOK:
		// fall through to hydration
	case domain.ClaimNotFound:
		return nil, domain.NewCodeNotFoundError(code)
	case domain.ClaimAlreadyClaimed:
		return nil, domain.NewAlreadyClaimedError(code)
	case domain.ClaimSelfLink:
		return nil, domain.NewSelfLinkError()
	default:
		return nil, domain.NewInternalError("unknown claim outcome", nil)
	}

	appLogger.Info("Couple linked",
		zap.String("coupleID", result.Couple.ID),
		zap.String("claimerID", userID))

	partnerID := result.Couple.PartnerOf(userID)
	partner, err := s.profileRepo.GetProfile(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load partner profile: %w", err)
	}
	if partner == nil {
		partner = &domain.Profile{ID: partnerID}
	}

	return toCoupleResponse(result.Couple.ID, partner), nil
}

// GetCouples lists the caller's linked couples, each annotated with the
// partner's profile. Pending invites are invisible here.
func (s *pairingServiceImpl) GetCouples(ctx context.Context, userID string) (*dto.CouplesResponse, error) {
	couples, err := s.coupleRepo.GetLinkedCouplesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list couples: %w", err)
	}

	partnerIDs := make([]string, 0, len(couples))
	for _, c := range couples {
		partnerIDs = append(partnerIDs, c.PartnerOf(userID))
	}
	profiles, err := s.profileRepo.GetProfilesByIDs(ctx, partnerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load partner profiles: %w", err)
	}
	byID := make(map[string]*domain.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	resp := &dto.CouplesResponse{Couples: make([]dto.CoupleResponse, 0, len(couples))}
	for _, c := range couples {
		partnerID := c.PartnerOf(userID)
		partner := byID[partnerID]
		if partner == nil {
			// Profiles are created with the user, so a hole here is
			// data damage worth surfacing in logs but not a failure.
			logger.Get().Warn("Partner profile missing", zap.String("partnerID", partnerID))
			partner = &domain.Profile{ID: partnerID}
		}
		resp.Couples = append(resp.Couples, *toCoupleResponse(c.ID, partner))
	}
	return resp, nil
}

func toCoupleResponse(coupleID string, partner *domain.Profile) *dto.CoupleResponse {
	return &dto.CoupleResponse{
		ID: coupleID,
		Partner: dto.ProfileResponse{
			ID:          partner.ID,
			FirstName:   partner.FirstName,
			LastName:    partner.LastName,
			DisplayName: partner.DisplayName(),
		},
	}
}
