package inventory

import (
	"fmt"
	"math"
	"strconv"

	"github.com/andresuchdata/inventory-manager/internal/domain"
)

// roundFloat rounds v to the given number of decimal places.
func roundFloat(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(v)
	}

	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}

// formatPercent renders v with exactly decimals fractional digits and a % suffix.
// Example: 16 (1 decimal) => "16.0%".
func formatPercent(v float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	return strconv.FormatFloat(roundFloat(v, decimals), 'f', decimals, 64) + "%"
}

// stockUtilization is currentStock as a percentage of maxStock. A zero or
// negative maxStock has no meaningful utilization and is reported as a
// computation error.
func stockUtilization(currentStock, maxStock int) (string, error) {
	if maxStock <= 0 {
		return "", fmt.Errorf("%w: stock utilization undefined for maxStock %d", domain.ErrComputation, maxStock)
	}

	return formatPercent(float64(currentStock)/float64(maxStock)*100, 1), nil
}
