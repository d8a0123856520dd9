package controllers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators hooks custom binding rules into gin's validator
// engine. Called once from main before any route is served.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("notiffilter", func(fl validator.FieldLevel) bool {
		return notificationFilters[fl.Field().String()]
	})
}
