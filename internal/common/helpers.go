package common

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of decimals of the native currency (wei).
const EtherDecimals = 18

// WeiToEther converts a wei amount to an ether string without float
// precision loss. A nil amount formats as "0".
func WeiToEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -EtherDecimals).String()
}

// EtherToWei converts an ether string to wei without float precision loss.
// Rejects negative amounts and sub-wei precision instead of silently
// truncating.
func EtherToWei(ether string) (*big.Int, error) {
	s := strings.TrimSpace(ether)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", ether, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("amount must be non-negative")
	}

	wei := d.Shift(EtherDecimals)
	if !wei.IsInteger() {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", ether, EtherDecimals)
	}
	return wei.BigInt(), nil
}

// CompareEtherAmounts compares two ether decimal string amounts without
// float precision loss.
// Returns: -1 if a < b, 0 if a == b, 1 if a > b, and error if parsing fails
func CompareEtherAmounts(a, b string) (int, error) {
	aVal, err := decimal.NewFromString(strings.TrimSpace(a))
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", a, err)
	}

	bVal, err := decimal.NewFromString(strings.TrimSpace(b))
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", b, err)
	}

	return aVal.Cmp(bVal), nil
}
