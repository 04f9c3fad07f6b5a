package core

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Well-known action types. Type is free text in the store; these are the
// ones the UI registers.
const (
	ActionCigarette = "cigarette"
	ActionBeer      = "beer"
	ActionFood      = "comida"
)

type (
	// ActionRecord is a logged discrete event (cigarette, beer, food).
	// Immutable once created except for deletion.
	ActionRecord struct {
		ID          int64
		Type        string
		Timestamp   int64 // milliseconds since epoch
		Description string
	}

	// DailyExpense is a logged monetary outlay.
	DailyExpense struct {
		ID       int64
		Amount   float64
		Category string
		Date     int64 // milliseconds since epoch
		Note     string
		Origin   string
	}

	// ExpenseInput holds the raw entry fields before validation.
	ExpenseInput struct {
		AmountText string
		Category   string
		Origin     string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrEmptyOrigin   = errors.New("empty origin")
	ErrEmptyType     = errors.New("empty action type")
)

// IsAmountValid reports whether s parses as a floating-point number
// strictly greater than zero.
func IsAmountValid(s string) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil && v > 0
}

// ParseAmount parses s into a strictly positive amount.
func ParseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// NormalizeCategory trims the category and upper-cases its first rune.
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(category)
	return string(unicode.ToUpper(r)) + category[size:]
}

func (in ExpenseInput) Validate() error {
	if !IsAmountValid(in.AmountText) {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(in.Origin) == "" {
		return ErrEmptyOrigin
	}
	return nil
}

func (e DailyExpense) Validate() error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.Origin) == "" {
		return ErrEmptyOrigin
	}
	return nil
}

func (r ActionRecord) Validate() error {
	if strings.TrimSpace(r.Type) == "" {
		return ErrEmptyType
	}
	return nil
}
