package apimodels

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			return jsonName(field.Tag.Get("json"), field.Name)
		})
	})
	return validate
}

// ValidateStruct проверка по тегам validate, ошибки в человекочитаемом виде
func ValidateStruct(data interface{}) error {
	err := getValidator().Struct(data)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fieldMessage(fieldErr))
	}
	return errors.New(strings.Join(messages, "; "))
}

func fieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("не указано поле %v", fieldErr.Field())
	case "max":
		return fmt.Sprintf("поле %v превышает допустимую длину %v", fieldErr.Field(), fieldErr.Param())
	case "min":
		return fmt.Sprintf("поле %v короче допустимого (%v)", fieldErr.Field(), fieldErr.Param())
	case "email":
		return fmt.Sprintf("поле %v содержит некорректный email", fieldErr.Field())
	case "oneof":
		return fmt.Sprintf("поле %v должно быть одним из: %v", fieldErr.Field(), fieldErr.Param())
	case "gt":
		return fmt.Sprintf("поле %v должно быть больше %v", fieldErr.Field(), fieldErr.Param())
	case "unique":
		return fmt.Sprintf("поле %v содержит повторяющиеся значения", fieldErr.Field())
	}
	return fmt.Sprintf("поле %v заполнено некорректно", fieldErr.Field())
}

func jsonName(tag, fieldName string) string {
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fieldName
	}
	return name
}
