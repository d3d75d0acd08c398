package validation

// UpdateValidator checks status update parameters before they are forwarded
type UpdateValidator struct {
	validator *Validator
}

// NewUpdateValidator creates a new update validator
func NewUpdateValidator() *UpdateValidator {
	return &UpdateValidator{validator: NewValidator()}
}

// ValidateUpdate requires both taskKey and status to be present. A value of
// only whitespace counts as missing. Valid values are returned unchanged, as
// the write-back endpoint expects them verbatim.
func (uv *UpdateValidator) ValidateUpdate(taskKey, status string) (string, string, error) {
	validationError := NewValidationError()

	if !uv.validator.IsNonEmptyString(taskKey) {
		validationError.AddRequiredError("taskKey")
	}
	if !uv.validator.IsNonEmptyString(status) {
		validationError.AddRequiredError("status")
	}

	if validationError.HasErrors() {
		return "", "", validationError
	}
	return taskKey, status, nil
}
