package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentAmount splits a principal over the given number of terms using
// truncating integer division. Any remainder is not redistributed.
func InstallmentAmount(principal int64, terms int) int64 {
	return principal / int64(terms)
}

// InstallmentDueDate returns the due date for the given term number.
// Term 1 is due one calendar month after the processing date.
func InstallmentDueDate(processedAt time.Time, term int) time.Time {
	return processedAt.AddDate(0, term, 0)
}

// minor unit exponents per supported currency
var currencyExponents = map[string]int32{
	"IDR": 0,
	"VND": 0,
	"SGD": 2,
	"THB": 2,
}

// DisplayAmount converts a minor-unit amount to its major-unit decimal
// representation for the given currency.
func DisplayAmount(minor int64, currencyCode string) decimal.Decimal {
	exp, ok := currencyExponents[currencyCode]
	if !ok {
		return decimal.NewFromInt(minor)
	}
	return decimal.New(minor, -exp)
}

// GenerateCardNumber produces a random 16-digit debit card number.
func GenerateCardNumber() string {
	return fmt.Sprintf("4%015d", rand.Int63n(1_000_000_000_000_000))
}
