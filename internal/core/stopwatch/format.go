package stopwatch

import "fmt"

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// Style selects one of the fixed elapsed-time representations.
type Style int

const (
	// StyleFull renders HH:MM:SS.mmm with unclamped hours.
	StyleFull Style = iota
	// StyleShort renders HH:MM:SS, or MM:SS below one hour.
	StyleShort
	// StyleMinimal renders "1h 2m", "2m 3s" or "3.045s".
	StyleMinimal
)

func (style Style) String() string {
	switch style {
	case StyleFull:
		return "full"
	case StyleShort:
		return "short"
	case StyleMinimal:
		return "minimal"
	default:
		return fmt.Sprintf("Style(%d)", int(style))
	}
}

// Stats is the fixed-radix decomposition of an elapsed time.
type Stats struct {
	TotalMS      uint64 `json:"total_ms"`
	Hours        uint64 `json:"hours"`
	Minutes      uint64 `json:"minutes"`
	Seconds      uint64 `json:"seconds"`
	Milliseconds uint64 `json:"milliseconds"`
	IsRunning    bool   `json:"is_running"`
	Formatted    string `json:"formatted,omitempty"`
}

// Decompose splits ms into hours, minutes, seconds and milliseconds.
func Decompose(ms uint64) Stats {
	return Stats{
		TotalMS:      ms,
		Hours:        ms / msPerHour,
		Minutes:      (ms % msPerHour) / msPerMinute,
		Seconds:      (ms % msPerMinute) / msPerSecond,
		Milliseconds: ms % msPerSecond,
	}
}

// Format renders ms in the given style.
func Format(ms uint64, style Style) string {
	parts := Decompose(ms)

	switch style {
	case StyleFull:
		return fmt.Sprintf("%02d:%02d:%02d.%03d", parts.Hours, parts.Minutes, parts.Seconds, parts.Milliseconds)
	case StyleShort:
		if parts.Hours > 0 {
			return fmt.Sprintf("%02d:%02d:%02d", parts.Hours, parts.Minutes, parts.Seconds)
		}
		return fmt.Sprintf("%02d:%02d", parts.Minutes, parts.Seconds)
	case StyleMinimal:
		if parts.Hours > 0 {
			return fmt.Sprintf("%dh %dm", parts.Hours, parts.Minutes)
		}
		if parts.Minutes > 0 {
			return fmt.Sprintf("%dm %ds", parts.Minutes, parts.Seconds)
		}
		return fmt.Sprintf("%d.%03ds", parts.Seconds, parts.Milliseconds)
	}
	return fmt.Sprintf("%dms", ms)
}
