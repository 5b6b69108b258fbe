package synth

import (
	"fmt"
	"strings"
)

// EffectKind identifies one of the droid sound effect algorithms.
type EffectKind int

const (
	// EffectNormal is plain warbled droid speech
	EffectNormal EffectKind = iota
	// EffectBlatt is a short raspy razz
	EffectBlatt
	// EffectTrill is an excited frequency-modulated chirp
	EffectTrill
	// EffectWhistle is a high-pitched sine with vibrato
	EffectWhistle
	// EffectScream is an alarmed rising noise burst
	EffectScream
	// EffectHappy is a rising scale of short beeps
	EffectHappy
	// EffectSad is a drooping descending tone
	EffectSad
	// EffectQuestion is a steady tone with a rising inflection
	EffectQuestion
	// EffectRandom picks one of the other effects at generation time
	EffectRandom
)

// numConcreteEffects counts the kinds EffectRandom resolves over.
const numConcreteEffects = int(EffectRandom)

var effectNames = [...]string{
	EffectNormal:   "normal",
	EffectBlatt:    "blatt",
	EffectTrill:    "trill",
	EffectWhistle:  "whistle",
	EffectScream:   "scream",
	EffectHappy:    "happy",
	EffectSad:      "sad",
	EffectQuestion: "question",
	EffectRandom:   "random",
}

// String returns the lowercase effect name.
func (e EffectKind) String() string {
	if e < 0 || int(e) >= len(effectNames) {
		return fmt.Sprintf("effect(%d)", int(e))
	}
	return effectNames[e]
}

// ParseEffect converts an effect name to its EffectKind. The match is
// case-insensitive. Unknown names return an error; callers are expected to
// log a warning and fall back to EffectNormal rather than abort.
func ParseEffect(name string) (EffectKind, error) {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for kind, known := range effectNames {
		if lowered == known {
			return EffectKind(kind), nil
		}
	}
	return EffectNormal, fmt.Errorf("unknown effect %q", name)
}

// CharacterClass groups characters that share an effect mapping.
type CharacterClass int

const (
	// ClassUppercase covers A-Z
	ClassUppercase CharacterClass = iota
	// ClassLowercase covers a-z
	ClassLowercase
	// ClassNumber covers 0-9
	ClassNumber
	// ClassWhitespace covers the space character
	ClassWhitespace
	// ClassPunctuation covers the four ASCII punctuation bands
	ClassPunctuation
	// ClassSpecial covers everything else, including non-ASCII
	ClassSpecial
)

var classNames = [...]string{
	ClassUppercase:   "uppercase",
	ClassLowercase:   "lowercase",
	ClassNumber:      "number",
	ClassWhitespace:  "whitespace",
	ClassPunctuation: "punctuation",
	ClassSpecial:     "special",
}

func (c CharacterClass) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return fmt.Sprintf("class(%d)", int(c))
	}
	return classNames[c]
}

// Classify maps a character to its class purely from the code point.
func Classify(r rune) CharacterClass {
	switch {
	case r >= 'A' && r <= 'Z':
		return ClassUppercase
	case r >= 'a' && r <= 'z':
		return ClassLowercase
	case r >= '0' && r <= '9':
		return ClassNumber
	case r == ' ':
		return ClassWhitespace
	case (r >= 33 && r <= 47) || (r >= 58 && r <= 64) ||
		(r >= 91 && r <= 96) || (r >= 123 && r <= 126):
		return ClassPunctuation
	default:
		return ClassSpecial
	}
}

// EffectMapping assigns an effect to each character class. Classes without an
// entry resolve to the engine's configured default effect.
type EffectMapping map[CharacterClass]EffectKind

// DefaultMapping returns the built-in class-to-effect table: trills for
// uppercase, blatts for digits, whistles for punctuation, normal speech for
// the rest.
func DefaultMapping() EffectMapping {
	return EffectMapping{
		ClassUppercase:   EffectTrill,
		ClassLowercase:   EffectNormal,
		ClassNumber:      EffectBlatt,
		ClassWhitespace:  EffectNormal,
		ClassPunctuation: EffectWhistle,
		ClassSpecial:     EffectNormal,
	}
}

// uniformMapping maps every class to a single effect. Used when a caller
// forces one effect for a whole message.
func uniformMapping(kind EffectKind) EffectMapping {
	m := make(EffectMapping, len(classNames))
	for class := range classNames {
		m[CharacterClass(class)] = kind
	}
	return m
}

// resolveEffect picks the effect for one character. Classes missing from the
// mapping use the fallback effect. Sentence punctuation gets an expressive
// override, but only when the character is not the final one: a trailing "?"
// already ends the message, so the inflection would land on nothing.
func resolveEffect(r rune, class CharacterClass, mapping EffectMapping, fallback EffectKind, last bool) EffectKind {
	effect, ok := mapping[class]
	if !ok {
		effect = fallback
	}
	if !last {
		switch r {
		case '?':
			effect = EffectQuestion
		case '!':
			effect = EffectScream
		case '.':
			effect = EffectSad
		}
	}
	return effect
}
