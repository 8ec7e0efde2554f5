package dialect

import (
	"fmt"

	"github.com/leapstack-labs/leapcube/pkg/interval"
)

// AddInterval parses text and adds it to the SQL expression expr.
func AddInterval(d Capabilities, expr, text string) (string, error) {
	iv, err := interval.Parse(text)
	if err != nil {
		return "", fmt.Errorf("add interval: %w", err)
	}
	return d.AddInterval(expr, iv), nil
}

// SubtractInterval parses text and subtracts it from the SQL expression expr.
func SubtractInterval(d Capabilities, expr, text string) (string, error) {
	iv, err := interval.Parse(text)
	if err != nil {
		return "", fmt.Errorf("subtract interval: %w", err)
	}
	return d.SubtractInterval(expr, iv), nil
}
