package domain

// Supported currency codes.
const (
	CurrencyIDR = "IDR"
	CurrencySGD = "SGD"
	CurrencyTHB = "THB"
	CurrencyVND = "VND"
)

var supportedCurrencies = map[string]bool{
	CurrencyIDR: true,
	CurrencySGD: true,
	CurrencyTHB: true,
	CurrencyVND: true,
}

// IsSupportedCurrency reports whether code belongs to the supported set.
func IsSupportedCurrency(code string) bool {
	return supportedCurrencies[code]
}
