package leveling

// Dimension selects which XP counter an operation applies to. DimensionNone
// touches only the running total (admin grants without an activity source).
type Dimension int

const (
	DimensionNone Dimension = iota
	DimensionTotal
	DimensionText
	DimensionVoice
)

func (d Dimension) String() string {
	switch d {
	case DimensionTotal:
		return "total"
	case DimensionText:
		return "text"
	case DimensionVoice:
		return "voice"
	default:
		return "none"
	}
}

// ParseDimension maps a command option value to a Dimension. Unknown values
// fall back to total.
func ParseDimension(s string) Dimension {
	switch s {
	case "text":
		return DimensionText
	case "voice":
		return DimensionVoice
	default:
		return DimensionTotal
	}
}
