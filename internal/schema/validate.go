package schema

import (
	"regexp"
	"strings"
	"sync"
)

// Validation messages. The GPHC messages differ so a user typing a 7-char
// value with a stray non-digit gets told the number must be exactly digits.
const (
	MsgRequired       = "This field is required"
	MsgInvalidFormat  = "Invalid format"
	MsgInvalidEmail   = "Please enter a valid email address"
	MsgInvalidUKPhone = "Please enter a valid UK phone number"
	MsgGPHCExact      = "GPHC number must be exactly 7 digits"
	MsgGPHCDigits     = "GPHC number must be 7 digits"
	MsgODSEmpty       = "Please enter an ODS code"
	MsgODSFormat      = "Invalid format. Use format like AB123"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	telRe   = regexp.MustCompile(`^(0|\+?44)[71]\d{8,9}$`)
	gphcRe  = regexp.MustCompile(`^\d{7}$`)
	odsRe   = regexp.MustCompile(`^[A-Z]{2,3}\d{2,3}$`)

	patternMu    sync.RWMutex
	patternCache = map[string]*regexp.Regexp{}
)

// Result is the outcome of validating a single field value.
type Result struct {
	OK      bool
	Message string
}

func valid() Result             { return Result{OK: true} }
func invalid(msg string) Result { return Result{Message: msg} }

// Validate checks raw against the descriptor's constraints. Rules apply in
// order with the first failure winning: required, declared pattern, kind
// shape (email, telephone, GPHC). The raw value is trimmed before checks;
// empty optional fields always pass.
func Validate(d FieldDescriptor, raw string) Result {
	value := strings.TrimSpace(raw)

	if d.Required && value == "" {
		return invalid(MsgRequired)
	}
	if value == "" {
		return valid()
	}

	if d.Pattern != "" && !compilePattern(d.Pattern).MatchString(value) {
		return invalid(orDefault(d.ValidationMsg, MsgInvalidFormat))
	}

	switch d.Kind {
	case KindEmail:
		if !emailRe.MatchString(value) {
			return invalid(MsgInvalidEmail)
		}
	case KindTel:
		if !telRe.MatchString(value) {
			return invalid(orDefault(d.ValidationMsg, MsgInvalidUKPhone))
		}
	case KindGPHC:
		if !gphcRe.MatchString(value) {
			if len(value) == 7 {
				return invalid(MsgGPHCExact)
			}
			return invalid(MsgGPHCDigits)
		}
	}

	return valid()
}

// ValidateAll runs Validate over every descriptor in the set against the
// provided value map. It returns per-key failures; an empty map means the
// whole set passed.
func ValidateAll(fs FieldSet, values map[string]string) map[string]string {
	failures := make(map[string]string)
	for _, d := range fs {
		if res := Validate(d, values[d.Key]); !res.OK {
			failures[d.Key] = res.Message
		}
	}
	return failures
}

// ValidGPHC reports whether s is exactly seven digits.
func ValidGPHC(s string) bool {
	return gphcRe.MatchString(strings.TrimSpace(s))
}

// NormalizeODS trims and uppercases a raw ODS code the way the form inputs do.
func NormalizeODS(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidODS reports whether s (after normalization) matches the ODS code
// shape: 2-3 letters followed by 2-3 digits.
func ValidODS(s string) bool {
	return odsRe.MatchString(NormalizeODS(s))
}

func compilePattern(pattern string) *regexp.Regexp {
	patternMu.RLock()
	re, ok := patternCache[pattern]
	patternMu.RUnlock()
	if ok {
		return re
	}
	re = regexp.MustCompile(pattern)
	patternMu.Lock()
	patternCache[pattern] = re
	patternMu.Unlock()
	return re
}

func orDefault(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
