package services

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// billRule is one pre-export check. Rules run in declaration order and the
// first failure is reported.
type billRule struct {
	item  int
	field string
	check func() error
}

// ValidateBill runs the pre-export rules against a bill and returns a
// *ValidationError for the first rule that fails, or nil.
func ValidateBill(project ProjectDetails, items []BillItem) error {
	rules := []billRule{
		{field: "projectName", check: func() error {
			return validation.Validate(strings.TrimSpace(project.ProjectName),
				validation.Required.Error("Project name is required"))
		}},
		{field: "contractorName", check: func() error {
			return validation.Validate(strings.TrimSpace(project.ContractorName),
				validation.Required.Error("Contractor name is required"))
		}},
		{field: "items", check: func() error {
			return validation.Validate(items,
				validation.Required.Error("At least one item is required"))
		}},
	}

	for i, item := range items {
		n := i + 1
		rules = append(rules,
			billRule{item: n, field: "quantity", check: func() error {
				return validation.Validate(item.Quantity,
					validation.Min(0.0).Error(fmt.Sprintf("Item %d: Quantity cannot be negative", n)))
			}},
			billRule{item: n, field: "rate", check: func() error {
				return validation.Validate(item.Rate,
					validation.Min(0.0).Error(fmt.Sprintf("Item %d: Rate cannot be negative", n)))
			}},
			billRule{item: n, field: "description", check: func() error {
				return validation.Validate(strings.TrimSpace(item.Description),
					validation.Required.Error(fmt.Sprintf("Item %d: Description is required", n)))
			}},
		)
	}

	if len(items) > 0 {
		rules = append(rules, billRule{field: "items", check: func() error {
			return validation.Validate(items, validation.By(hasExecutedQuantity))
		}})
	}

	for _, r := range rules {
		if err := r.check(); err != nil {
			return &ValidationError{Item: r.item, Field: r.field, Message: err.Error()}
		}
	}
	return nil
}

// hasExecutedQuantity requires at least one item with a positive quantity.
func hasExecutedQuantity(value interface{}) error {
	items, _ := value.([]BillItem)
	for _, item := range items {
		if item.Quantity > 0 {
			return nil
		}
	}
	return errors.New("At least one item must have quantity > 0")
}
