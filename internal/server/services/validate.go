package services

import (
	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// rule is one field check. Rules are evaluated in order and the first
// failing one decides the message.
type rule struct {
	value any
	other any
	tag   string
	msg   string
}

func firstViolation(rules []rule) error {
	for _, r := range rules {
		var err error
		if r.other != nil {
			err = validate.VarWithValue(r.value, r.other, r.tag)
		} else {
			err = validate.Var(r.value, r.tag)
		}
		if err != nil {
			return common.NewValidationError(r.msg)
		}
	}
	return nil
}
