package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"pairquiz/internal/domain"
	"pairquiz/internal/dto"
	"pairquiz/internal/handler"
	"pairquiz/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockPairingService
type MockPairingService struct {
	GenerateLinkingCodeFunc func(ctx context.Context, userID string) (*dto.LinkingCodeResponse, error)
	ClaimLinkingCodeFunc    func(ctx context.Context, userID, code string) (*dto.CoupleResponse, error)
	GetCouplesFunc          func(ctx context.Context, userID string) (*dto.CouplesResponse, error)
}

func (m *MockPairingService) GenerateLinkingCode(ctx context.Context, userID string) (*dto.LinkingCodeResponse, error) {
	if m.GenerateLinkingCodeFunc != nil {
		return m.GenerateLinkingCodeFunc(ctx, userID)
	}
	panic("MockPairingService.GenerateLinkingCodeFunc not implemented")
}
func (m *MockPairingService) ClaimLinkingCode(ctx context.Context, userID, code string) (*dto.CoupleResponse, error) {
	if m.ClaimLinkingCodeFunc != nil {
		return m.ClaimLinkingCodeFunc(ctx, userID, code)
	}
	panic("MockPairingService.ClaimLinkingCodeFunc not implemented")
}
func (m *MockPairingService) GetCouples(ctx context.Context, userID string) (*dto.CouplesResponse, error) {
	if m.GetCouplesFunc != nil {
		return m.GetCouplesFunc(ctx, userID)
	}
	panic("MockPairingService.GetCouplesFunc not implemented")
}

func setupPairingTestApp(svc *MockPairingService, userID string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	h := handler.NewPairingHandler(svc)

	api := app.Group("/api/couples", fakeAuth(userID))
	api.Post("/code", h.GenerateCode)
	api.Post("/claim", h.ClaimCode)
	api.Get("/", h.GetCouples)
	return app
}

func TestPairingHandler_GenerateCode(t *testing.T) {
	svc := &MockPairingService{
		GenerateLinkingCodeFunc: func(ctx context.Context, userID string) (*dto.LinkingCodeResponse, error) {
			return &dto.LinkingCodeResponse{LinkingCode: "AB12CD"}, nil
		},
	}
	app := setupPairingTestApp(svc, "alice")

	req := httptest.NewRequest("POST", "/api/couples/code", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var body dto.LinkingCodeResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "AB12CD", body.LinkingCode)
}

func TestPairingHandler_ClaimCode_FailureTaxonomyStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unknown code", domain.NewCodeNotFoundError("ZZZZZZ"), fiber.StatusNotFound, string(domain.CodeCodeNotFound)},
		{"already claimed", domain.NewAlreadyClaimedError("AB12CD"), fiber.StatusConflict, string(domain.CodeAlreadyClaimed)},
		{"self link", domain.NewSelfLinkError(), fiber.StatusBadRequest, string(domain.CodeSelfLink)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &MockPairingService{
				ClaimLinkingCodeFunc: func(ctx context.Context, userID, code string) (*dto.CoupleResponse, error) {
					return nil, tc.err
				},
			}
			app := setupPairingTestApp(svc, "bob")

			body, _ := json.Marshal(dto.ClaimRequest{Code: "AB12CD"})
			req := httptest.NewRequest("POST", "/api/couples/claim", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			raw, _ := io.ReadAll(resp.Body)
			var errResp middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &errResp))
			assert.Equal(t, tc.wantCode, errResp.Code)
		})
	}
}

func TestPairingHandler_ClaimCode_Success(t *testing.T) {
	svc := &MockPairingService{
		ClaimLinkingCodeFunc: func(ctx context.Context, userID, code string) (*dto.CoupleResponse, error) {
			return &dto.CoupleResponse{ID: "couple1", Partner: dto.ProfileResponse{ID: "alice", DisplayName: "Alice"}}, nil
		},
	}
	app := setupPairingTestApp(svc, "bob")

	body, _ := json.Marshal(dto.ClaimRequest{Code: "AB12CD"})
	req := httptest.NewRequest("POST", "/api/couples/claim", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var couple dto.CoupleResponse
	require.NoError(t, json.Unmarshal(raw, &couple))
	assert.Equal(t, "couple1", couple.ID)
	assert.Equal(t, "Alice", couple.Partner.DisplayName)
}

func TestPairingHandler_GetCouples(t *testing.T) {
	svc := &MockPairingService{
		GetCouplesFunc: func(ctx context.Context, userID string) (*dto.CouplesResponse, error) {
			return &dto.CouplesResponse{Couples: []dto.CoupleResponse{{ID: "couple1"}}}, nil
		},
	}
	app := setupPairingTestApp(svc, "alice")

	req := httptest.NewRequest("GET", "/api/couples/", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var body dto.CouplesResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Len(t, body.Couples, 1)
}
