// Package service holds the orchestration of the registry operations.
package service

import (
	validator "github.com/go-playground/validator/v10"
	"github.com/mdouchement/foundtag/internal/lferror"
)

var validate = validator.New()

type (
	// RegisterParams are the fields accepted when registering a lost item.
	// Blank fields stay permitted, only upper bounds are enforced.
	RegisterParams struct {
		OwnerName    string `json:"name"        form:"name"        validate:"max=120"`
		OwnerContact string `json:"contact"     form:"contact"     validate:"max=120"`
		Description  string `json:"description" form:"description" validate:"max=2000"`
	}

	// MessageParams are the fields accepted when a finder files a message.
	MessageParams struct {
		FinderName    string `json:"finder_name"    form:"finder_name"    validate:"max=120"`
		FinderContact string `json:"finder_contact" form:"finder_contact" validate:"max=120"`
		FoundWhere    string `json:"found_where"    form:"found_where"    validate:"max=250"`
		Message       string `json:"message"        form:"message"        validate:"max=2000"`
	}
)

// check applies the validation bounds on the given (post-trim) params.
func check(params any) error {
	if err := validate.Struct(params); err != nil {
		return lferror.Validation(err.Error())
	}
	return nil
}
