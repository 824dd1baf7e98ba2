package report

import "testing"

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#2d5016")
	if err != nil {
		t.Fatal(err)
	}
	if c != (RGB{0x2d, 0x50, 0x16}) || c.Hex() != "#2d5016" {
		t.Errorf("got %+v (%s)", c, c.Hex())
	}
	for _, bad := range []string{"", "#fff", "zzzzzz"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q): expected error", bad)
		}
	}
}

func TestLerp(t *testing.T) {
	a, b := RGB{0, 0, 0}, RGB{200, 100, 50}
	if got := a.Lerp(b, 0.5); got != (RGB{100, 50, 25}) {
		t.Errorf("midpoint: got %+v", got)
	}
	if a.Lerp(b, -1) != a || a.Lerp(b, 2) != b {
		t.Error("t should clamp to [0,1]")
	}
}

func TestThemeByName(t *testing.T) {
	dark, err := ThemeByName("Dark")
	if err != nil || dark.Background != (RGB{0x1a, 0x1a, 0x1a}) {
		t.Errorf("dark: %+v %v", dark, err)
	}
	if light, _ := ThemeByName(""); light.Name != "light" {
		t.Errorf("empty name should give light, got %q", light.Name)
	}
	if _, err := ThemeByName("neon"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestOverride(t *testing.T) {
	th, err := LightTheme().Override(map[string]string{"pitch": "#00ff00", "text": ""})
	if err != nil {
		t.Fatal(err)
	}
	if th.Pitch != (RGB{0, 255, 0}) || th.Text != LightTheme().Text {
		t.Errorf("override: %+v", th)
	}
	if _, err := LightTheme().Override(map[string]string{"grass": "#000000"}); err == nil {
		t.Error("expected error for unknown key")
	}
}
