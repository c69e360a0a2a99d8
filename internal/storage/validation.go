// Package storage keeps the correspondence register in a local SQLite database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/moti-registry/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrInvalidRecord = errors.New("invalid record")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTable validates every record before a write. An empty table is valid.
func validateTable(table model.Table) error {
	for i := range table {
		if err := validateRecord(&table[i]); err != nil {
			return fmt.Errorf("record at index %d: %w", i, err)
		}
	}
	return nil
}

// validateRecord validates a single record.
func validateRecord(rec *model.Correspondence) error {
	if strings.TrimSpace(rec.RefID) == "" {
		return fmt.Errorf("%w: ref id is required", ErrInvalidRecord)
	}
	if rec.DateReceived.IsZero() {
		return fmt.Errorf("%w: %s has no date received", ErrInvalidRecord, rec.RefID)
	}
	return nil
}
