package validation

import (
	"regexp"
	"strings"

	"pairquiz/internal/domain"
	"pairquiz/internal/dto"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateEmail validates an email address for the OTP endpoints.
func (v *Validator) ValidateEmail(email string) domain.ValidationErrors {
	var errs domain.ValidationErrors

	email = strings.TrimSpace(email)
	if email == "" {
		errs = append(errs, domain.NewMissingFieldError("email"))
	} else if !isValidEmail(email) {
		errs = append(errs, domain.NewInvalidFormatError("email", email))
	}

	return errs
}

// ValidateOTPVerify validates the code verification request.
func (v *Validator) ValidateOTPVerify(req *dto.OTPVerifyRequest) domain.ValidationErrors {
	errs := v.ValidateEmail(req.Email)

	code := strings.TrimSpace(req.Code)
	if code == "" {
		errs = append(errs, domain.NewMissingFieldError("code"))
	} else if !isNumeric(code) {
		errs = append(errs, domain.NewInvalidFormatError("code", code))
	}

	return errs
}

// ValidateClaimRequest validates a linking-code claim.
func (v *Validator) ValidateClaimRequest(req *dto.ClaimRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		errs = append(errs, domain.NewMissingFieldError("code"))
	} else if !isValidLinkingCode(code) {
		errs = append(errs, domain.NewInvalidFormatError("code", req.Code))
	}

	return errs
}

// ValidateSaveAnswersRequest validates an answer batch before it reaches
// the service. The empty batch is a validation failure, not a no-op.
func (v *Validator) ValidateSaveAnswersRequest(req *dto.SaveAnswersRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if len(req.Answers) == 0 {
		errs = append(errs, domain.NewMissingFieldError("answers"))
		return errs
	}

	for _, item := range req.Answers {
		if strings.TrimSpace(item.QuestionID) == "" {
			errs = append(errs, domain.NewMissingFieldError("question_id"))
			continue
		}
		if !isValidULID(item.QuestionID) {
			errs = append(errs, domain.NewInvalidFormatError("question_id", item.QuestionID))
		}
		switch domain.AnswerValueKind(item.Kind) {
		case domain.ValueScale:
		case domain.ValueText, domain.ValueChoice, domain.ValueYesNo:
			if item.Value == "" {
				errs = append(errs, domain.NewMissingFieldError("value"))
			}
		default:
			errs = append(errs, domain.NewInvalidFormatError("kind", item.Kind))
		}
	}

	return errs
}

// ValidateResetAnswersRequest validates a category reset.
func (v *Validator) ValidateResetAnswersRequest(req *dto.ResetAnswersRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if strings.TrimSpace(req.CategoryID) == "" {
		errs = append(errs, domain.NewMissingFieldError("category_id"))
	} else if !isValidULID(req.CategoryID) {
		errs = append(errs, domain.NewInvalidFormatError("category_id", req.CategoryID))
	}

	return errs
}

// Helper functions for validation

var (
	emailPattern       = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	numericPattern     = regexp.MustCompile(`^[0-9]+$`)
	linkingCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)
	ulidPattern        = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
)

func isValidEmail(s string) bool {
	return len(s) <= 254 && emailPattern.MatchString(s)
}

func isNumeric(s string) bool {
	return numericPattern.MatchString(s)
}

func isValidLinkingCode(s string) bool {
	return linkingCodePattern.MatchString(s)
}

// isValidULID checks if the string is a valid ULID format
func isValidULID(s string) bool {
	return len(s) == 26 && ulidPattern.MatchString(s)
}
