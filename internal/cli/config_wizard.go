package cli

import (
	"fmt"
	"net"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"aashub/internal/config"
)

func wizardTheme() *huh.Theme {
	theme := huh.ThemeCharm()
	theme.FieldSeparator = lipgloss.NewStyle()
	theme.Blurred.Title = theme.Blurred.Title.Width(18).Foreground(lipgloss.Color("7"))
	theme.Focused.Title = theme.Focused.Title.Width(18).Foreground(primary).Bold(true)
	theme.Focused.SelectedOption = lipgloss.NewStyle().Foreground(primary)
	return theme
}

func runConfigWizard(path string, cfg config.Config) error {
	title := cfg.UI.Title
	theme := cfg.UI.Theme
	addr := cfg.Server.Addr
	verify := cfg.Verification.Enabled

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("aashub").Description("Settings are saved to " + path),
			huh.NewInput().Title("Title").Value(&title),
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOption("light", "light"), huh.NewOption("dark", "dark")).
				Value(&theme),
			huh.NewInput().Title("Listen address").Value(&addr).Validate(func(s string) error {
				_, _, err := net.SplitHostPort(s)
				return err
			}),
			huh.NewConfirm().Title("Email verification").Value(&verify),
		),
	).WithTheme(wizardTheme()).WithWidth(60)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.UI.Title = title
	cfg.UI.Theme = theme
	cfg.Server.Addr = addr
	cfg.Verification.Enabled = verify
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("\n✓ saved ") + path)
	return nil
}
