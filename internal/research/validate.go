package research

import (
	"errors"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/sells-group/company-brief/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError is a request rejection with a human-readable reason.
// Handlers map it to a 400 response.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidationError reports whether err originates from request validation.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateRequest checks the inbound request: required fields, the company
// name length cap, and that the website parses as a URL once normalized.
func ValidateRequest(req model.ResearchRequest) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch {
				case fe.Field() == "CompanyName" && fe.Tag() == "max":
					return &ValidationError{Reason: "companyName is too long (max 200 characters)"}
				case fe.Field() == "CompanyName":
					return &ValidationError{Reason: "companyName is required"}
				case fe.Field() == "Website":
					return &ValidationError{Reason: "website is required"}
				}
			}
		}
		return &ValidationError{Reason: "invalid request"}
	}

	website, domain := NormalizeWebsite(req.Website)
	u, err := url.Parse(website)
	if err != nil || u.Host == "" || domain == "" {
		return &ValidationError{Reason: "website is not a valid URL"}
	}

	return nil
}
