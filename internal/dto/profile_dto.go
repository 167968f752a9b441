package dto

// ProfileResponse is a user's display profile. Names are nullable until
// the user fills them in.
type ProfileResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email,omitempty"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	// DisplayName is derived from the name fields, empty when both are unset.
	DisplayName string `json:"display_name"`
}

// UpdateProfileRequest sets the display names.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}
