package validation

import (
	"app-time-tracker/internal/config"
	"app-time-tracker/internal/domain"
)

// ProjectValidator provides validation for project operations
type ProjectValidator struct {
	validator *Validator
}

// NewProjectValidator creates a new project validator
func NewProjectValidator() *ProjectValidator {
	return &ProjectValidator{validator: NewValidator()}
}

// NewProjectValidatorWithConfig creates a project validator using configured limits
func NewProjectValidatorWithConfig(cfg *config.Config) *ProjectValidator {
	return &ProjectValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateProjectName validates a project name for creation or rename
func (pv *ProjectValidator) ValidateProjectName(name string) error {
	validationError := NewValidationError()

	trimmedName := pv.validator.TrimAndValidateString(name)
	if !pv.validator.IsNonEmptyString(trimmedName) {
		validationError.AddRequiredError("project_name")
		return validationError
	}

	if !pv.validator.IsValidProjectNameLength(trimmedName) {
		validationError.AddInvalidLengthError("project_name", trimmedName,
			pv.validator.getProjectNameMinLength(), pv.validator.getProjectNameMaxLength())
	}

	if !pv.validator.HasNoControlCharacters(trimmedName) {
		validationError.AddInvalidCharacterError("project_name", trimmedName)
	}

	return validationError.ErrOrNil()
}

// ValidateStatus parses a user-supplied status
func (pv *ProjectValidator) ValidateStatus(status string) (domain.ProjectStatus, error) {
	parsed, ok := domain.ParseProjectStatus(status)
	if !ok {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("status", status, "must be one of WIP, Finished, On Hold, Waitlist")
		return "", validationError
	}
	return parsed, nil
}

// ValidateProjectID validates a project ID
func (pv *ProjectValidator) ValidateProjectID(id int64) error {
	if !pv.validator.IsValidID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("project_id", id, "must be a positive integer")
		return validationError
	}
	return nil
}

// ValidateProjectForCreation validates the inputs of a new project. An empty
// status means the default.
func (pv *ProjectValidator) ValidateProjectForCreation(name, status string) (domain.Project, error) {
	validationError := NewValidationError()
	validationError.Merge(pv.ValidateProjectName(name))

	parsed := domain.StatusWIP
	if pv.validator.IsNonEmptyString(status) {
		var err error
		parsed, err = pv.ValidateStatus(status)
		validationError.Merge(err)
	}

	if err := validationError.ErrOrNil(); err != nil {
		return domain.Project{}, err
	}
	return domain.NewProject(name, parsed), nil
}

// GetValidProjectName returns a cleaned project name if valid
func (pv *ProjectValidator) GetValidProjectName(name string) (string, error) {
	if err := pv.ValidateProjectName(name); err != nil {
		return "", err
	}
	return pv.validator.TrimAndValidateString(name), nil
}
