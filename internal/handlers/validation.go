package handlers

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/josepguedes/Projeto-2/internal/services"
)

var registerOnce sync.Once

// registerValidators installs the custom binding rules on gin's validator.
// Field names in messages follow the JSON names clients send.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("isodate", isoDate)
	})
}

// isoDate accepts a strict YYYY-MM-DD calendar date.
func isoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(services.DateLayout, fl.Field().String())
	return err == nil
}
