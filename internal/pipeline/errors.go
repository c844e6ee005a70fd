package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used to classify pipeline failures for the operator.
var (
	ErrInput         = errors.New("input error")
	ErrSchema        = errors.New("schema mapping error")
	ErrExternal      = errors.New("external tool error")
	ErrConfiguration = errors.New("configuration error")
	ErrLocked        = errors.New("another invocation holds the lock")
)

// Wrap builds an error message that includes operation context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrExternal
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
