package httputil

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

// RegisterValidators adds the domain validation tags to gin's binding engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("report_reason", func(fl validator.FieldLevel) bool {
		return models.ValidReportReason(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("report_status", func(fl validator.FieldLevel) bool {
		return models.ValidReportStatus(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("vote", func(fl validator.FieldLevel) bool {
		n := fl.Field().Int()
		return n == models.VoteUp || n == models.VoteDown
	})
}
