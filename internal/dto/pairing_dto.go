package dto

// LinkingCodeResponse returns a freshly issued invite code.
type LinkingCodeResponse struct {
	LinkingCode string `json:"linking_code"`
}

// ClaimRequest redeems a partner's invite code.
type ClaimRequest struct {
	Code string `json:"code" validate:"required"`
}

// CoupleResponse is a linked couple from the viewer's perspective.
type CoupleResponse struct {
	ID      string          `json:"id"`
	Partner ProfileResponse `json:"partner"`
}

// CouplesResponse lists the viewer's linked couples.
type CouplesResponse struct {
	Couples []CoupleResponse `json:"couples"`
}
