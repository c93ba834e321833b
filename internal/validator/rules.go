package validator

import (
	"permiso_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules wires platform-specific enum checks into the
// validator. Empty values pass; pair with "required" where needed.
func registerCustomRules(v *validator.Validate) {
	_ = v.RegisterValidation("project_type", func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		if val == "" {
			return true
		}
		return models.ValidProjectTypes[models.ProjectType(val)]
	})

	_ = v.RegisterValidation("project_status", func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		if val == "" {
			return true
		}
		return models.ValidProjectStatuses[models.ProjectStatus(val)]
	})

	_ = v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		if val == "" {
			return true
		}
		return models.ValidUserRoles[models.UserRole(val)]
	})
}
