package interact

// Theme is the dark/light page theme.  The zero value is light.
type Theme struct{ dark bool }

// Toggle flips the theme and reports whether it is now dark.
func (t *Theme) Toggle() bool {
	t.dark = !t.dark
	return t.dark
}

// Dark reports whether the dark theme is active.
func (t Theme) Dark() bool { return t.dark }

// Name returns "dark" or "light".
func (t Theme) Name() string {
	if t.dark {
		return "dark"
	}
	return "light"
}

// BodyClass is the class added to <body>, empty for light.
func (t Theme) BodyClass() string {
	if t.dark {
		return "dark-theme"
	}
	return ""
}

// ButtonLabel names the theme the button switches to.
func (t Theme) ButtonLabel() string {
	if t.dark {
		return "☀️ Switch to Light Mode"
	}
	return "🌙 Switch to Dark Mode"
}
