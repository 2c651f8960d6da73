package pixel

import (
	"fmt"
	"strings"
)

// Outcome is the visible result of displaying a converted buffer.
type Outcome uint8

const (
	OK Outcome = iota
	WrongAlpha
	Blank
	WrongColors
)

var outcomeNames = [...]string{
	OK:          "OK",
	WrongAlpha:  "WRONG_ALPHA",
	Blank:       "BLANK",
	WrongColors: "WRONG_COLORS",
}

// messages as printed by the demos.
var outcomeMessages = [...]string{
	OK:          "OK",
	WrongAlpha:  "Wrong alpha",
	Blank:       "Blank image",
	WrongColors: "Wrong colors",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", o)
}

// Message returns the short human-readable description of o.
func (o Outcome) Message() string {
	if int(o) < len(outcomeMessages) {
		return outcomeMessages[o]
	}
	return o.String()
}

func ParseOutcome(s string) (Outcome, error) {
	for i, n := range outcomeNames {
		if strings.EqualFold(n, s) || strings.EqualFold(outcomeMessages[i], s) {
			return Outcome(i), nil
		}
	}
	return OK, fmt.Errorf("unknown outcome %q", s)
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	v, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Classify predicts the outcome of converting from src to dst with opts.
// Opaque targets count as straight alpha.
func Classify(src, dst Encoding, opts Options) Outcome {
	naive := opts.Alpha == AlphaNaive

	if naive && src.Alpha == AlphaNone && dst.Alpha != AlphaNone {
		return Blank
	}
	if opts.ReinterpretChannels && src.layout() != dst.layout() {
		return WrongColors
	}
	if naive && src.Alpha != AlphaNone && src.Alpha != effectiveAlpha(dst.Alpha) {
		return WrongAlpha
	}
	return OK
}

func effectiveAlpha(m AlphaMode) AlphaMode {
	if m == AlphaNone {
		return AlphaStraight
	}
	return m
}
