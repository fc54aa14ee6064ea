package styles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyTheme_Default(t *testing.T) {
	err := ApplyTheme(ThemeConfig{})
	require.NoError(t, err)
	// Should apply default preset colors
	require.Equal(t, DefaultPreset.Colors[TokenTextPrimary], TextPrimaryColor.Dark)
}

func TestApplyTheme_Preset(t *testing.T) {
	TestPreset := Preset{
		Name:        "test",
		Description: "Test preset",
		Colors: map[ColorToken]string{
			TokenTextPrimary: "#FF0000",
		},
	}
	Presets["test"] = TestPreset
	defer delete(Presets, "test")

	err := ApplyTheme(ThemeConfig{Preset: "test"})
	require.NoError(t, err)
	require.Equal(t, "#FF0000", TextPrimaryColor.Dark)
}

func TestApplyTheme_ColorOverride(t *testing.T) {
	err := ApplyTheme(ThemeConfig{
		Colors: map[string]string{
			"text.primary": "#00FF00",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "#00FF00", TextPrimaryColor.Dark)
}

func TestApplyTheme_PresetWithOverride(t *testing.T) {
	// Color override should take precedence over preset
	TestPreset := Preset{
		Name:        "test2",
		Description: "Test preset 2",
		Colors: map[ColorToken]string{
			TokenTextPrimary:   "#FF0000",
			TokenTextSecondary: "#0000FF",
		},
	}
	Presets["test2"] = TestPreset
	defer delete(Presets, "test2")

	err := ApplyTheme(ThemeConfig{
		Preset: "test2",
		Colors: map[string]string{
			"text.primary": "#00FF00", // Override preset
		},
	})
	require.NoError(t, err)
	require.Equal(t, "#00FF00", TextPrimaryColor.Dark)   // Overridden
	require.Equal(t, "#0000FF", TextSecondaryColor.Dark) // From preset
}

func TestApplyTheme_InvalidPreset(t *testing.T) {
	err := ApplyTheme(ThemeConfig{Preset: "nonexistent"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown theme preset")
}

func TestApplyTheme_InvalidToken(t *testing.T) {
	err := ApplyTheme(ThemeConfig{
		Colors: map[string]string{
			"not.a.token": "#FF0000",
		},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown color token")
}

func TestApplyTheme_InvalidHexColor(t *testing.T) {
	for _, bad := range []string{"red", "FF0000", "#GGGGGG", "#FF00"} {
		err := ApplyTheme(ThemeConfig{
			Colors: map[string]string{
				"text.primary": bad,
			},
		})
		require.Error(t, err, "color %q should be rejected", bad)
		require.Contains(t, err.Error(), "invalid hex color")
	}
}

func TestApplyTheme_ShortHexAccepted(t *testing.T) {
	err := ApplyTheme(ThemeConfig{
		Colors: map[string]string{
			"status.error": "#F00",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "#F00", StatusErrorColor.Dark)
}

func TestApplyTheme_RebuildsStyles(t *testing.T) {
	err := ApplyTheme(ThemeConfig{
		Colors: map[string]string{
			"status.error": "#123456",
		},
	})
	require.NoError(t, err)
	// FieldErrorStyle is rebuilt from the updated color
	require.Equal(t, "#123456", StatusErrorColor.Dark)
	require.Equal(t, StatusErrorColor, FieldErrorStyle.GetForeground())
}
