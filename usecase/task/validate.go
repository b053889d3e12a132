package task

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/taskflow/backend/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldNames maps struct fields to the wire names callers see in
// validation messages.
var fieldNames = map[string]string{
	"Title":       "title",
	"Description": "description",
	"Status":      "status",
	"DueDate":     "due_date",
	"AssigneeID":  "assigned_user_id",
	"Assignee":    "assigned_user_id",
}

func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return domain.WrapError(domain.ErrCodeInvalid, "invalid payload", err)
	}

	fields := make(map[string]string, len(vErrs))
	for _, fe := range vErrs {
		name := fe.Field()
		if mapped, ok := fieldNames[name]; ok {
			name = mapped
		}
		fields[name] = fieldMessage(fe)
	}
	return &domain.ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must not be empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of Pending, In Progress, Completed"
	default:
		return "is invalid"
	}
}
