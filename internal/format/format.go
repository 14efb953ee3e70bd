// Package format holds display formatting helpers shared by the API layer.
// Everything here is forgiving: bad input formats to a sensible zero value
// rather than an error.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"gatherly/internal/models"
)

// Currency renders an amount as US dollars with two decimals, e.g. "$1,234.50".
// NaN and infinities render as "$0.00".
func Currency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "$0.00"
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	cents := int64(math.Round(amount * 100))
	whole := cents / 100
	frac := cents % 100
	return fmt.Sprintf("%s$%s.%02d", sign, groupThousands(whole), frac)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Date renders a unix timestamp as "Jan 2, 2006". Zero renders empty.
func Date(unix int64) string {
	if unix == 0 {
		return ""
	}
	return time.Unix(unix, 0).UTC().Format("Jan 2, 2006")
}

// RelativeTime renders a unix timestamp relative to now: "just now",
// "5 minutes ago", "3 hours ago", "2 days ago", falling back to the
// absolute date past a week. Zero renders empty.
func RelativeTime(unix int64, now time.Time) string {
	if unix == 0 {
		return ""
	}

	diff := now.Sub(time.Unix(unix, 0))
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour") + " ago"
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day") + " ago"
	default:
		return Date(unix)
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Truncate shortens text to at most maxLen runes, replacing the tail with
// "..." when it cuts.
func Truncate(text string, maxLen int) string {
	const suffix = "..."
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= len(suffix) {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-len(suffix)]) + suffix
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// TitleCase capitalizes each space-separated word.
func TitleCase(text string) string {
	words := strings.Split(strings.ToLower(text), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// UserName returns the user's display name, falling back to the part of
// the email before the @, then to "User".
func UserName(user *models.User) string {
	if user == nil {
		return "User"
	}
	if name := user.Name(); name != "" {
		return name
	}
	return "User"
}

// UserInitials derives one or two upper-case initials from the user's
// display name.
func UserInitials(user *models.User) string {
	return Initials(UserName(user))
}

// Initials derives one or two upper-case initials from a display name:
// the first letter, plus the first letter of the last word when the name
// has several.
func Initials(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "U"
	}
	if len(parts) == 1 {
		return strings.ToUpper(string([]rune(parts[0])[0:1]))
	}
	first := []rune(parts[0])[0:1]
	last := []rune(parts[len(parts)-1])[0:1]
	return strings.ToUpper(string(first) + string(last))
}

// Percentage renders a ratio as a percent string with one decimal, e.g.
// 0.125 renders as "12.5%".
func Percentage(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", value*100)
}

// List joins items with commas and a final "and": "a, b, and c".
func List(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

// Role renders a role for display, capitalizing unknown roles.
func Role(role models.Role) string {
	switch role {
	case models.RoleOwner:
		return "Owner"
	case models.RoleAdmin:
		return "Admin"
	case models.RoleEditor:
		return "Editor"
	case models.RoleMember:
		return "Member"
	case models.RoleViewer:
		return "Viewer"
	default:
		return Capitalize(string(role))
	}
}
