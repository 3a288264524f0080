package model

import (
	"fmt"
	"math/big"
	"strings"
)

// usdDecimals matches the contract's fixed-point USD representation.
const usdDecimals = 18

// ParseUSD parses a decimal USD amount like "19.99" into the contract's
// 18-decimal fixed-point representation. Negative amounts are rejected.
func ParseUSD(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("amount must not be empty")
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("amount must not be negative")
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > usdDecimals {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", s, usdDecimals)
	}
	frac += strings.Repeat("0", usdDecimals-len(frac))

	value, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("amount %q is not a valid number", s)
	}
	return value, nil
}

// FormatUSD renders a fixed-point USD amount as a decimal string with
// trailing zeros trimmed.
func FormatUSD(v *big.Int) string {
	if v == nil {
		return "0"
	}
	digits := v.String()
	if len(digits) <= usdDecimals {
		digits = strings.Repeat("0", usdDecimals-len(digits)+1) + digits
	}
	whole := digits[:len(digits)-usdDecimals]
	frac := strings.TrimRight(digits[len(digits)-usdDecimals:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}
