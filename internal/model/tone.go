package model

// Tone is the color family used to render a task by its offboarding type.
type Tone string

const (
	ToneRed    Tone = "red"
	ToneYellow Tone = "yellow"
	ToneOrange Tone = "orange"
	ToneGray   Tone = "gray"
)

// ToneFor maps an offboarding type to its color. Unknown types are gray.
func ToneFor(offboardingType string) Tone {
	switch offboardingType {
	case TypeImmediate:
		return ToneRed
	case TypeShort:
		return ToneYellow
	case TypeLong:
		return ToneOrange
	default:
		return ToneGray
	}
}
