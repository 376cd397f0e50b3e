package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultDuration is assumed when a duration description cannot be read.
const DefaultDuration = 60 * time.Minute

var durationPattern = regexp.MustCompile(`(?i)(\d+)\s+(hour|minute)s?`)

// ParseDurationText reads a human duration such as "2 hours" or
// "45 minutes" out of free-form text. Anything it cannot read falls back
// to DefaultDuration rather than failing; users type these.
func ParseDurationText(text string) time.Duration {
	match := durationPattern.FindStringSubmatch(text)
	if match == nil {
		return DefaultDuration
	}

	amount, err := strconv.Atoi(match[1])
	if err != nil {
		return DefaultDuration
	}

	if strings.EqualFold(match[2], "hour") {
		return time.Duration(amount) * time.Hour
	}
	return time.Duration(amount) * time.Minute
}
