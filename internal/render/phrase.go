package render

import (
	"fmt"
	"strings"
	"time"
)

// Clock face emoji indexed by hour-on-12, for on-the-hour and half-past
// banner times.
var (
	hourClocks = []rune("🕛🕐🕑🕒🕓🕔🕕🕖🕗🕘🕙🕚")
	halfClocks = []rune("🕧🕜🕝🕞🕟🕠🕡🕢🕣🕤🕥🕦")
)

// TimeBanner returns the clock emoji and formatted time for the daylist
// banner, with the time rounded up to the next half-hour boundary: 4:10
// becomes 4:30, 4:45 becomes 5:00.
func TimeBanner(now time.Time) (emoji, formatted string) {
	minute, carry := 30, time.Duration(0)
	if now.Minute() >= 30 {
		minute, carry = 0, time.Hour
	}
	rounded := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), minute, 0, 0, now.Location()).Add(carry)

	hour := rounded.Hour() % 12
	if rounded.Minute() == 0 {
		emoji = string(hourClocks[hour])
	} else {
		emoji = string(halfClocks[hour])
	}

	formatted = strings.TrimPrefix(rounded.Format("03:04 PM"), "0")
	return emoji, formatted
}

// TimeOfDay returns "morning", "afternoon" or "evening" for the fallback
// phrase used when the daylist cache is empty.
func TimeOfDay(now time.Time) string {
	switch hour := now.Hour(); {
	case hour < 12:
		return "morning"
	case hour < 17:
		return "afternoon"
	default:
		return "evening"
	}
}

// DaylistPhrase composes the full banner phrase around a scraped daylist
// label, e.g. "(It's around 4:30 PM 🕟, another late night pop hits)".
func DaylistPhrase(label string, now time.Time) string {
	emoji, formatted := TimeBanner(now)
	return fmt.Sprintf("(It's around %s %s, another %s)", formatted, emoji, label)
}

// FallbackPhrase composes the banner phrase served when no daylist label is
// cached.
func FallbackPhrase(now time.Time) string {
	return DaylistPhrase(TimeOfDay(now)+" of music", now)
}
