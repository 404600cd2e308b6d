// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package validate checks request and form structs before they reach the
// Jarvis server, using go-playground/validator struct tags. Field names in
// errors are the JSON names so they line up with server-side messages.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	instance *validator.Validate
	once     sync.Once
)

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		// notmasked rejects the "***" placeholder the server uses for stored secrets.
		_ = v.RegisterValidation("notmasked", func(fl validator.FieldLevel) bool {
			return fl.Field().String() != "***"
		})
		instance = v
	})
	return instance
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// Errors collects every failed rule of a struct.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Field returns the message for the named field, or "".
func (e Errors) Field(name string) string {
	for _, fe := range e {
		if fe.Field == name {
			return fe.Message
		}
	}
	return ""
}

// Struct validates s. It returns Errors when any rule fails.
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// Var validates a single value against a tag such as "required,email".
func Var(field string, value interface{}, tag string) error {
	err := Validator().Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: field, Message: messageFor(field, fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	return messageFor(fe.Field(), fe)
}

func messageFor(field string, fe validator.FieldError) string {
	field = strings.ReplaceAll(field, "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_with":
		return fmt.Sprintf("%s is required when %s is set", field, strings.ToLower(strings.ReplaceAll(fe.Param(), "Security", "security ")))
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte", "lte":
		return fmt.Sprintf("%s is out of range", field)
	case "hostname", "hostname_rfc1123":
		return fmt.Sprintf("%s must be a host name", field)
	case "notmasked":
		return fmt.Sprintf("%s still holds the masked placeholder", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
