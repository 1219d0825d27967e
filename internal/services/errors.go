package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks bad caller input (unsupported request type, empty document).
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks lookups for queue items that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedInput marks source documents the parse stage cannot accept.
	ErrUnsupportedInput = errors.New("unsupported input")
	// ErrProvider marks network, timeout, or non-2xx failures from the generation provider.
	ErrProvider = errors.New("provider error")
	// ErrEmptyOutput marks provider responses that carried no usable content.
	ErrEmptyOutput = errors.New("empty output")
	// ErrClaimConflict marks a lost race for a pending queue item.
	ErrClaimConflict = errors.New("claim conflict")
	// ErrPersistence marks queue store failures.
	ErrPersistence = errors.New("persistence error")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrProvider
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
