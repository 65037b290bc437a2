package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Asset     AccountType = "Asset"
	Liability AccountType = "Liability"
	Equity    AccountType = "Equity"
	Revenue   AccountType = "Revenue"
	Expense   AccountType = "Expense"
)

const (
	Credit Effect = "CREDIT"
	Debit  Effect = "DEBIT"
)

type (
	// AccountType is the accounting classification of an account.
	AccountType string

	// Effect is the direction of an entry: CREDIT or DEBIT.
	Effect string

	// Date is a day-granularity calendar date. The zero value is the
	// missing-date sentinel produced when a ledger date cannot be parsed.
	Date struct {
		time.Time
	}

	// Money is a signed amount in cents. Keeping cents as int64 makes
	// two-decimal rounding exact and sums associative.
	Money struct {
		Cents int64
	}

	// Entry is one immutable ledger row. Amount carries only the
	// magnitude; Effect carries the direction.
	Entry struct {
		Date    Date
		Account string
		Type    AccountType
		Effect  Effect
		Amount  Money
	}
)

var (
	ErrInvalidType   = errors.New("invalid account type")
	ErrInvalidEffect = errors.New("invalid effect")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyAccount  = errors.New("empty account name")
)

// ParseAccountType maps a ledger Type value onto an AccountType,
// case-insensitively.
func ParseAccountType(s string) (AccountType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asset":
		return Asset, nil
	case "liability":
		return Liability, nil
	case "equity":
		return Equity, nil
	case "revenue":
		return Revenue, nil
	case "expense":
		return Expense, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// ParseEffect maps a ledger Effect value onto an Effect, case-insensitively.
func ParseEffect(s string) (Effect, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CREDIT":
		return Credit, nil
	case "DEBIT":
		return Debit, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidEffect, s)
	}
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Missing reports whether the date is the missing-date sentinel.
func (d Date) Missing() bool {
	return d.IsZero()
}

// YearMonth returns the "YYYY-MM" bucket the date falls into.
func (d Date) YearMonth() string {
	return d.Format("2006-01")
}

// DayKey returns the date truncated to day granularity.
func (d Date) DayKey() Date {
	y, m, dd := d.Date()
	return NewDate(y, int(m), dd)
}

func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IncomeStatement reports whether the type belongs on the income statement.
func (t AccountType) IncomeStatement() bool {
	return t == Revenue || t == Expense
}

func (e Effect) Valid() bool {
	return e == Credit || e == Debit
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.Account) == "" {
		return ErrEmptyAccount
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, string(e.Type))
	}
	if !e.Effect.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidEffect, string(e.Effect))
	}
	if e.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
