package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"aashub/internal/bootstrap"
	"aashub/internal/router"
	"aashub/internal/system"
)

func init() {
	rootCmd.AddCommand(routesCmd)
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the routes and the plugins the application mounts with",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		// keep bootstrap logs out of the listing
		_ = system.SetLevel("warn")
		res, err := bootstrap.New(cfg, bootstrap.Options{})
		if err != nil {
			return err
		}
		fmt.Println(titleStyle.Render("Routes"))
		fmt.Println(routeTable(res.Router.Routes()))
		fmt.Println(mutedStyle.Render("unmatched paths render the NotFound view with status 404"))
		fmt.Println()
		fmt.Println(titleStyle.Render("Plugins") + " " + strings.Join(res.App.Plugins(), " → "))
		fmt.Println(titleStyle.Render("Mount") + "   " + cfg.UI.Mount)
		return nil
	},
}

func routeTable(routes []router.Route) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(muted)).
		Headers("#", "PATH", "VIEW").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Foreground(primary).Bold(true)
			}
			return s
		})
	for i, rt := range routes {
		t.Row(fmt.Sprint(i+1), rt.Path, rt.View.Name())
	}
	return t.Render()
}
