package youtube

import (
	"fmt"
	"strings"

	"github.com/sosodev/duration"
)

// ParseDuration converts an ISO-8601 duration such as PT1H2M3S into whole seconds.
func ParseDuration(s string) (int, error) {
	if s == "P" || s == "PT" || strings.HasSuffix(s, "T") || !strings.HasPrefix(s, "P") {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	d, err := duration.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d.Negative {
		return 0, fmt.Errorf("invalid duration %q: negative", s)
	}

	return int(d.ToTimeDuration().Seconds()), nil
}
