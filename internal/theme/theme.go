package theme

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

var schoolBlue = color.NRGBA{R: 0x1A, G: 0x23, B: 0x7E, A: 0xFF}

// attendanceTheme is the default theme with the school colour and a compact
// text size so all grade rows fit without scrolling.
type attendanceTheme struct{}

func Apply(app fyne.App) fyne.App {
	app.Settings().SetTheme(&attendanceTheme{})
	return app
}

func (s *attendanceTheme) Color(n fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	switch n {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return schoolBlue
	default:
		return theme.DefaultTheme().Color(n, v)
	}
}

func (s *attendanceTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (s *attendanceTheme) Icon(n fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(n)
}

func (s *attendanceTheme) Size(n fyne.ThemeSizeName) float32 {
	switch n {
	case theme.SizeNameText:
		return 13
	default:
		return theme.DefaultTheme().Size(n)
	}
}
