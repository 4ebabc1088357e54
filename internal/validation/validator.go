// Cinemate - Personal Movie Recommendation Service
// Copyright 2026 Jihx-0
// SPDX-License-Identifier: MIT
// https://github.com/Jihx-0/cinemate-recommendation-engine

// Package validation wraps go-playground/validator behind a singleton
// so request structs are validated with one shared, thread-safe
// validator instance.
//
//	type RatingRequest struct {
//	    MovieID int `json:"movie_id" validate:"required,min=1"`
//	    Rating  int `json:"rating" validate:"required,min=1,max=5"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    // verr.Fields maps field name to a human-readable problem
//	}
package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// ValidationError aggregates per-field validation failures.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, problem := range e.Fields {
		parts = append(parts, field+": "+problem)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct validates a struct's `validate` tags. Returns nil when
// everything passes.
func ValidateStruct(v interface{}) *ValidationError {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &ValidationError{Fields: map[string]string{"_": err.Error()}}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return &ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
