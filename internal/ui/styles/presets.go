// Package styles contains Lip Gloss style definitions.
package styles

// Preset represents a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains all built-in theme presets.
var Presets = map[string]Preset{
	"default":          DefaultPreset,
	"catppuccin-mocha": CatppuccinMochaPreset,
	"high-contrast":    HighContrastPreset,
}

// DefaultPreset is the stock pestle color scheme.
// Color values match the styles.go AdaptiveColor definitions (Dark values).
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default pestle theme",
	Colors: map[ColorToken]string{
		// Text hierarchy
		TokenTextPrimary:     "#CCCCCC",
		TokenTextSecondary:   "#BBBBBB",
		TokenTextMuted:       "#696969",
		TokenTextPlaceholder: "#777777",

		// Borders
		TokenBorderDefault:   "#696969",
		TokenBorderFocus:     "#FFFFFF",
		TokenBorderHighlight: "#54A0FF",

		// Status indicators
		TokenStatusSuccess: "#73F59F",
		TokenStatusWarning: "#FECA57",
		TokenStatusError:   "#FF8787",

		// Selection
		TokenSelectionIndicator: "#FFFFFF",

		// Buttons
		TokenButtonText:             "#FFFFFF",
		TokenButtonPrimaryBg:        "#1A5276",
		TokenButtonPrimaryFocusBg:   "#3498DB",
		TokenButtonSecondaryBg:      "#2D3436",
		TokenButtonSecondaryFocusBg: "#636E72",
		TokenButtonDangerBg:         "#922B21",
		TokenButtonDangerFocusBg:    "#E74C3C",
		TokenButtonDisabledBg:       "#2D2D2D",

		// Forms
		TokenFormBorder:      "#8C8C8C",
		TokenFormBorderFocus: "#FFFFFF",
		TokenFormLabel:       "#8C8C8C",
		TokenFormLabelFocus:  "#FFFFFF",

		// Overlays/Modals
		TokenOverlayTitle:  "#C9C9C9",
		TokenOverlayBorder: "#8C8C8C",

		// Toast notifications
		TokenToastSuccess: "#73F59F",
		TokenToastDanger:  "#FF8787",
		TokenToastInfo:    "#54A0FF",
		TokenToastWarn:    "#FECA57",

		// Misc
		TokenSpinner: "#FFFFFF",
	},
}

// CatppuccinMochaPreset uses the Catppuccin Mocha palette.
var CatppuccinMochaPreset = Preset{
	Name:        "catppuccin-mocha",
	Description: "Catppuccin Mocha (dark)",
	Colors: map[ColorToken]string{
		// Text hierarchy
		TokenTextPrimary:     "#CDD6F4", // text
		TokenTextSecondary:   "#BAC2DE", // subtext1
		TokenTextMuted:       "#6C7086", // overlay0
		TokenTextPlaceholder: "#585B70", // surface2

		// Borders
		TokenBorderDefault:   "#45475A", // surface1
		TokenBorderFocus:     "#B4BEFE", // lavender
		TokenBorderHighlight: "#89B4FA", // blue

		// Status indicators
		TokenStatusSuccess: "#A6E3A1", // green
		TokenStatusWarning: "#F9E2AF", // yellow
		TokenStatusError:   "#F38BA8", // red

		// Selection
		TokenSelectionIndicator: "#F5E0DC", // rosewater

		// Buttons
		TokenButtonText:             "#11111B", // crust
		TokenButtonPrimaryBg:        "#74C7EC", // sapphire
		TokenButtonPrimaryFocusBg:   "#89B4FA", // blue
		TokenButtonSecondaryBg:      "#45475A", // surface1
		TokenButtonSecondaryFocusBg: "#585B70", // surface2
		TokenButtonDangerBg:         "#EBA0AC", // maroon
		TokenButtonDangerFocusBg:    "#F38BA8", // red
		TokenButtonDisabledBg:       "#313244", // surface0

		// Forms
		TokenFormBorder:      "#45475A",
		TokenFormBorderFocus: "#B4BEFE",
		TokenFormLabel:       "#6C7086",
		TokenFormLabelFocus:  "#B4BEFE",

		// Overlays/Modals
		TokenOverlayTitle:  "#CDD6F4",
		TokenOverlayBorder: "#585B70",

		// Toast notifications
		TokenToastSuccess: "#A6E3A1",
		TokenToastDanger:  "#F38BA8",
		TokenToastInfo:    "#89B4FA",
		TokenToastWarn:    "#F9E2AF",

		// Misc
		TokenSpinner: "#CBA6F7", // mauve
	},
}

// HighContrastPreset maximizes contrast for accessibility.
var HighContrastPreset = Preset{
	Name:        "high-contrast",
	Description: "High contrast black and white with bright accents",
	Colors: map[ColorToken]string{
		// Text hierarchy
		TokenTextPrimary:     "#FFFFFF",
		TokenTextSecondary:   "#E0E0E0",
		TokenTextMuted:       "#A0A0A0",
		TokenTextPlaceholder: "#808080",

		// Borders
		TokenBorderDefault:   "#FFFFFF",
		TokenBorderFocus:     "#FFFF00",
		TokenBorderHighlight: "#00FFFF",

		// Status indicators
		TokenStatusSuccess: "#00FF00",
		TokenStatusWarning: "#FFFF00",
		TokenStatusError:   "#FF0000",

		// Selection
		TokenSelectionIndicator: "#FFFF00",

		// Buttons
		TokenButtonText:             "#000000",
		TokenButtonPrimaryBg:        "#00FFFF",
		TokenButtonPrimaryFocusBg:   "#FFFFFF",
		TokenButtonSecondaryBg:      "#C0C0C0",
		TokenButtonSecondaryFocusBg: "#FFFFFF",
		TokenButtonDangerBg:         "#FF0000",
		TokenButtonDangerFocusBg:    "#FF8080",
		TokenButtonDisabledBg:       "#404040",

		// Forms
		TokenFormBorder:      "#FFFFFF",
		TokenFormBorderFocus: "#FFFF00",
		TokenFormLabel:       "#FFFFFF",
		TokenFormLabelFocus:  "#FFFF00",

		// Overlays/Modals
		TokenOverlayTitle:  "#FFFFFF",
		TokenOverlayBorder: "#FFFFFF",

		// Toast notifications
		TokenToastSuccess: "#00FF00",
		TokenToastDanger:  "#FF0000",
		TokenToastInfo:    "#00FFFF",
		TokenToastWarn:    "#FFFF00",

		// Misc
		TokenSpinner: "#FFFFFF",
	},
}
