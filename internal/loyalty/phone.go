package loyalty

import (
	"fmt"
	"strings"
)

// NormalizePhone strips all non-digit characters from a raw phone number and
// returns the canonical (DDD) DDD-DDDD display form. Any input that does not
// reduce to exactly 10 digits fails with ErrInvalidPhone.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	cleaned := digits.String()
	if len(cleaned) != 10 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}

	return fmt.Sprintf("(%s) %s-%s", cleaned[:3], cleaned[3:6], cleaned[6:]), nil
}
