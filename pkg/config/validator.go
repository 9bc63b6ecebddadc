// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/secure-secrets/secure-secrets/pkg/obfuscate"
)

// Validator validates configuration.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report yaml keys rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("jvmpackage", func(fl validator.FieldLevel) bool {
		return obfuscate.ValidatePackage(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("encoder", func(fl validator.FieldLevel) bool {
		_, err := obfuscate.Lookup(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

// Validate validates a configuration. The first problem found is returned
// as a *ValidationError.
func (v *Validator) Validate(cfg *Config) error {
	if err := v.validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fromFieldError(fieldErrs[0])
		}
		return err
	}

	if err := cfg.Mapping.Validate(); err != nil {
		return &ValidationError{Field: "build_types_name", Message: err.Error()}
	}

	for _, name := range cfg.Variants {
		if !contains(cfg.Mapping.BuildTypesName, name) && len(cfg.Mapping.BuildTypesName) > 0 {
			return &ValidationError{
				Field:   "variants",
				Value:   name,
				Message: "not listed in build_types_name",
			}
		}
	}

	return nil
}

func fromFieldError(fe validator.FieldError) *ValidationError {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")

	var msg string
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "oneof":
		msg = "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "jvmpackage":
		msg = "must be a dotted package name like com.example.app"
	case "encoder":
		msg = "must be one of: " + strings.Join(obfuscate.Names(), ", ")
	default:
		msg = fmt.Sprintf("failed %q check", fe.Tag())
	}

	return &ValidationError{Field: field, Value: fe.Value(), Message: msg}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil && e.Value != "" {
		return fmt.Sprintf("validation error for %s: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}
