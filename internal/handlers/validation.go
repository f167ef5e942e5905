package handlers

import (
	"errors"
	"fmt"
	"sync"

	"court_booking_backend/internal/services"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var registerOnce sync.Once

// RegisterValidations adds the custom binding tags the request DTOs use.
func RegisterValidations() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("notblank", validators.NotBlank)
		}
	})
}

// bindingMessage turns the first failed binding rule into the client-facing message.
// Absent and blank fields share MsgMissingRequiredFields.
func bindingMessage(err error) (string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "", false
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "email":
		return "Invalid email address", true
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()), true
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()), true
	}
	return services.MsgMissingRequiredFields, true
}
