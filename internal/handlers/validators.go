package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Ledger dates travel as ISO strings; ordering and range checks rely on the
// YYYY-MM-DD prefix, so malformed dates are rejected at the binding layer.
var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T.*)?$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			return isoDatePattern.MatchString(fl.Field().String())
		})
	}
}
