package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Appointment numbers are human-readable, unique per tenant, and carry a
// per-day sequence: APT-YYYYMMDD-NNNN.

func NumberPrefix(day time.Time) string {
	return "APT-" + day.Format("20060102")
}

func FormatNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s-%04d", NumberPrefix(day), seq)
}

// NextSequence returns the sequence that follows lastNumber for the day, or 1
// when lastNumber is empty or malformed.
func NextSequence(lastNumber string) int {
	if lastNumber == "" {
		return 1
	}
	parts := strings.Split(lastNumber, "-")
	seq, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 1
	}
	return seq + 1
}
