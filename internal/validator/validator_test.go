package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Type       string `validate:"omitempty,expense_type"`
	Recurrence string `validate:"omitempty,recurrence"`
	Category   string `validate:"omitempty,category_type"`
	Gender     string `validate:"omitempty,gender"`
}

func TestCustomTags(t *testing.T) {
	v := validator.New()
	RegisterOn(v)

	tests := []struct {
		name  string
		input sample
		valid bool
	}{
		{"fixed_expense", sample{Type: "fixed"}, true},
		{"installments", sample{Type: "installments"}, true},
		{"unknown_expense_type", sample{Type: "weekly"}, false},
		{"monthly_recurrence", sample{Recurrence: "monthly"}, true},
		{"one_time_recurrence", sample{Recurrence: "one-time"}, true},
		{"unknown_recurrence", sample{Recurrence: "yearly"}, false},
		{"income_category", sample{Category: "income"}, true},
		{"transfer_category", sample{Category: "transfer"}, false},
		{"gender_other", sample{Gender: "other"}, true},
		{"gender_unknown", sample{Gender: "x"}, false},
		{"empty_fields", sample{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
