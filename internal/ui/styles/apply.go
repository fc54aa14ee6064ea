// Package styles contains Lip Gloss style definitions.
package styles

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ThemeConfig mirrors config.ThemeConfig to avoid circular imports.
type ThemeConfig struct {
	Preset string
	Colors map[string]string
}

// ApplyTheme applies a complete theme configuration.
// Order of application:
// 1. Start with default colors
// 2. Apply preset (if specified)
// 3. Apply individual color overrides
// 4. Rebuild all Style objects
func ApplyTheme(cfg ThemeConfig) error {
	// Step 1: Start with default preset
	colors := maps.Clone(DefaultPreset.Colors)

	// Step 2: Apply preset if specified
	if cfg.Preset != "" && cfg.Preset != "default" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset.Colors)
	}

	// Step 3: Apply individual color overrides
	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}

	// Step 4: Apply colors to variables
	applyColors(colors)

	// Step 5: Rebuild all Style objects
	rebuildStyles()

	return nil
}

func applyColors(colors map[ColorToken]string) {
	// Helper to create adaptive color (uses same color for both modes)
	makeColor := func(hex string) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Light: hex, Dark: hex}
	}

	// Text hierarchy
	if c, ok := colors[TokenTextPrimary]; ok {
		TextPrimaryColor = makeColor(c)
	}
	if c, ok := colors[TokenTextSecondary]; ok {
		TextSecondaryColor = makeColor(c)
	}
	if c, ok := colors[TokenTextMuted]; ok {
		TextMutedColor = makeColor(c)
	}
	if c, ok := colors[TokenTextPlaceholder]; ok {
		TextPlaceholderColor = makeColor(c)
	}

	// Borders
	if c, ok := colors[TokenBorderDefault]; ok {
		BorderDefaultColor = makeColor(c)
	}
	if c, ok := colors[TokenBorderFocus]; ok {
		BorderFocusColor = makeColor(c)
	}
	if c, ok := colors[TokenBorderHighlight]; ok {
		BorderHighlightFocusColor = makeColor(c)
	}

	// Status
	if c, ok := colors[TokenStatusSuccess]; ok {
		StatusSuccessColor = makeColor(c)
	}
	if c, ok := colors[TokenStatusWarning]; ok {
		StatusWarningColor = makeColor(c)
	}
	if c, ok := colors[TokenStatusError]; ok {
		StatusErrorColor = makeColor(c)
	}

	// Selection
	if c, ok := colors[TokenSelectionIndicator]; ok {
		SelectionIndicatorColor = makeColor(c)
	}

	// Buttons
	if c, ok := colors[TokenButtonText]; ok {
		ButtonTextColor = makeColor(c)
	}
	if c, ok := colors[TokenButtonPrimaryBg]; ok {
		ButtonPrimaryBgColor = makeColor(c)
	}
	if c, ok := colors[TokenButtonPrimaryFocusBg]; ok {
		ButtonPrimaryFocusBgColor = makeColor(c)
	}
	if c, ok := colors[TokenButtonSecondaryBg]; ok {
		ButtonSecondaryBgColor = makeColor(c)
	}
	if c, ok := colors[TokenButtonSecondaryFocusBg]; ok {
		ButtonSecondaryFocusBgColor = makeColor(c)
	}
	if c, ok := colors[TokenButtonDangerBg]; ok {
		ButtonDangerBgColor = makeColor(c)
	}
	if c, ok := colors[TokenButtonDangerFocusBg]; ok {
		ButtonDangerFocusBgColor = makeColor(c)
	}
	if c, ok := colors[TokenButtonDisabledBg]; ok {
		ButtonDisabledBgColor = makeColor(c)
	}

	// Forms
	if c, ok := colors[TokenFormBorder]; ok {
		FormTextInputBorderColor = makeColor(c)
	}
	if c, ok := colors[TokenFormBorderFocus]; ok {
		FormTextInputFocusedBorderColor = makeColor(c)
	}
	if c, ok := colors[TokenFormLabel]; ok {
		FormTextInputLabelColor = makeColor(c)
	}
	if c, ok := colors[TokenFormLabelFocus]; ok {
		FormTextInputFocusedLabelColor = makeColor(c)
	}

	// Overlays
	if c, ok := colors[TokenOverlayTitle]; ok {
		OverlayTitleColor = makeColor(c)
	}
	if c, ok := colors[TokenOverlayBorder]; ok {
		OverlayBorderColor = makeColor(c)
	}

	// Toast
	if c, ok := colors[TokenToastSuccess]; ok {
		ToastBorderSuccessColor = makeColor(c)
	}
	if c, ok := colors[TokenToastDanger]; ok {
		ToastBorderDangerColor = makeColor(c)
	}
	if c, ok := colors[TokenToastInfo]; ok {
		ToastBorderInfoColor = makeColor(c)
	}
	if c, ok := colors[TokenToastWarn]; ok {
		ToastBorderWarnColor = makeColor(c)
	}

	// Misc
	if c, ok := colors[TokenSpinner]; ok {
		SpinnerColor = makeColor(c)
	}
}

// rebuildStyles recreates all Style objects with updated colors.
// This is necessary because lipgloss.Style objects capture colors at creation time.
func rebuildStyles() {
	// Selection indicator
	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)

	// Buttons
	baseButtonStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true)

	PrimaryButtonStyle = baseButtonStyle.
		Foreground(ButtonTextColor).
		Background(ButtonPrimaryBgColor)

	PrimaryButtonFocusedStyle = baseButtonStyle.
		Foreground(ButtonTextColor).
		Background(ButtonPrimaryFocusBgColor).
		Underline(true).
		UnderlineSpaces(true)

	SecondaryButtonStyle = baseButtonStyle.
		Foreground(ButtonTextColor).
		Background(ButtonSecondaryBgColor)

	SecondaryButtonFocusedStyle = baseButtonStyle.
		Foreground(ButtonTextColor).
		Background(ButtonSecondaryFocusBgColor).
		Underline(true).
		UnderlineSpaces(true)

	DangerButtonStyle = baseButtonStyle.
		Foreground(ButtonTextColor).
		Background(ButtonDangerBgColor)

	DangerButtonFocusedStyle = baseButtonStyle.
		Foreground(ButtonTextColor).
		Background(ButtonDangerFocusBgColor).
		Underline(true).
		UnderlineSpaces(true)

	// Validation message
	FieldErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(TextSecondaryColor).
		Padding(0, 1)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
		Foreground(StatusErrorColor).
		Bold(true).
		Padding(1, 2)
}

func isValidToken(token ColorToken) bool {
	return slices.Contains(AllTokens(), token)
}

func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 64)
	return err == nil
}
