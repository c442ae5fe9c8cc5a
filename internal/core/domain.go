package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Categories offered by the expense form. Records may carry any other string.
const (
	Food          = "Food"
	Transport     = "Transport"
	Entertainment = "Entertainment"
	Utilities     = "Utilities"
	Shopping      = "Shopping"
	Other         = "Other"
)

const maxDescriptionLen = 200

type (
	// Expense is a single ledger record. It is never mutated after creation.
	Expense struct {
		ID          string    `json:"id"`
		Description string    `json:"description"`
		Amount      Money     `json:"amount"`
		Category    string    `json:"category"`
		Date        time.Time `json:"date"`
	}

	// NewExpense carries the caller-supplied part of an expense. ID and Date
	// are always assigned by the ledger.
	NewExpense struct {
		Description string
		Amount      Money
		Category    string
	}

	// CategoryAmount is a total aggregated by category name.
	CategoryAmount struct {
		Category string `json:"category"`
		Total    Money  `json:"total"`
	}
)

var (
	ErrInvalidExpense     = errors.New("invalid expense")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = fmt.Errorf("description too long (max %d characters)", maxDescriptionLen)
	ErrEmptyCategory      = errors.New("empty category")
)

// Categories returns the six form categories in display order.
func Categories() []string {
	return []string{Food, Transport, Entertainment, Utilities, Shopping, Other}
}

// IsKnownCategory reports whether c is one of the form categories.
func IsKnownCategory(c string) bool {
	for _, k := range Categories() {
		if k == c {
			return true
		}
	}
	return false
}

// Validate returns an error wrapping ErrInvalidExpense and the specific cause.
func (n NewExpense) Validate() error {
	if strings.TrimSpace(n.Description) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidExpense, ErrEmptyDescription)
	}
	if utf8.RuneCountInString(n.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: %w", ErrInvalidExpense, ErrDescriptionTooLong)
	}
	if err := n.Amount.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidExpense, err)
	}
	if strings.TrimSpace(n.Category) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidExpense, ErrEmptyCategory)
	}
	return nil
}
