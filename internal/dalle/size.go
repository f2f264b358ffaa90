package dalle

import "strings"

// Size selects which DALL·E Mini checkpoint the inference backend loads.
type Size int

const (
	Mini Size = iota
	Mega
	MegaFull
)

var sizes = map[string]Size{
	"MINI":      Mini,
	"MEGA":      Mega,
	"MEGA_FULL": MegaFull,
}

func (s Size) String() string {
	switch s {
	case Mega:
		return "MEGA"
	case MegaFull:
		return "MEGA_FULL"
	default:
		return "MINI"
	}
}

// Artifact is the model reference the backend resolves weights from.
func (s Size) Artifact() string {
	switch s {
	case Mega:
		return "dalle-mini/dalle-mini/mega-1-fp16:latest"
	case MegaFull:
		return "dalle-mini/dalle-mini/mega-1:latest"
	default:
		return "dalle-mini/dalle-mini/mini-1:v0"
	}
}

// ParseSize looks up a size by name, ignoring case. The boolean is false
// when name is not a known size, in which case Mini is returned.
func ParseSize(name string) (Size, bool) {
	size, ok := sizes[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return Mini, false
	}
	return size, true
}
