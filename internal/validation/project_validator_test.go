package validation

import (
	"strings"
	"testing"

	"app-time-tracker/internal/domain"
)

func TestProjectValidator_ValidateProjectName(t *testing.T) {
	validator := NewProjectValidator()

	tests := []struct {
		name      string
		input     string
		wantErr   bool
		wantField ValidationErrorType
	}{
		{"Valid name", "Thesis", false, ""},
		{"Unicode name", "Écriture 論文", false, ""},
		{"Empty", "   ", true, ErrorTypeRequired},
		{"Too long", strings.Repeat("a", 256), true, ErrorTypeInvalidLength},
		{"Control characters", "bad\tname", true, ErrorTypeInvalidCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateProjectName(tt.input)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ValidateProjectName(%q) = %v, expected nil", tt.input, err)
				}
				return
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("ValidateProjectName(%q) = %v, expected *ValidationError", tt.input, err)
			}
			if ve.Errors[0].Type != tt.wantField {
				t.Errorf("error type = %s, expected %s", ve.Errors[0].Type, tt.wantField)
			}
		})
	}
}

func TestProjectValidator_ValidateStatus(t *testing.T) {
	validator := NewProjectValidator()

	status, err := validator.ValidateStatus("on hold")
	if err != nil || status != domain.StatusOnHold {
		t.Errorf("ValidateStatus(on hold) = %q, %v", status, err)
	}

	if _, err := validator.ValidateStatus("abandoned"); !IsValidationError(err) {
		t.Errorf("ValidateStatus(abandoned) error = %v, expected validation error", err)
	}
}

func TestProjectValidator_ValidateProjectForCreation(t *testing.T) {
	validator := NewProjectValidator()

	project, err := validator.ValidateProjectForCreation("  Thesis  ", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project.Name != "Thesis" || project.Status != domain.StatusWIP {
		t.Errorf("project = %+v, expected trimmed name and WIP", project)
	}

	_, err = validator.ValidateProjectForCreation("", "nonsense")
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(ve.Errors) != 2 {
		t.Errorf("expected name and status errors, got %d: %v", len(ve.Errors), ve)
	}
}

func TestProjectValidator_ValidateProjectID(t *testing.T) {
	validator := NewProjectValidator()
	if err := validator.ValidateProjectID(0); err == nil {
		t.Error("ValidateProjectID(0) = nil")
	}
	if err := validator.ValidateProjectID(3); err != nil {
		t.Errorf("ValidateProjectID(3) = %v", err)
	}
}

func TestProjectValidator_GetValidProjectName(t *testing.T) {
	validator := NewProjectValidator()
	name, err := validator.GetValidProjectName("  Paper ")
	if err != nil || name != "Paper" {
		t.Errorf("GetValidProjectName = %q, %v", name, err)
	}
}
