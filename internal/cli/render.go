package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"aashub/internal/bootstrap"
	"aashub/internal/system"
	"aashub/internal/view"
)

var renderHTML bool

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().BoolVar(&renderHTML, "html", false, "print the full HTML document instead of a terminal preview")
}

var renderCmd = &cobra.Command{
	Use:   "render [path]",
	Short: "Render the page routed at path (default /)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/"
		if len(args) == 1 {
			path = args[0]
		}
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		_ = system.SetLevel("warn")
		res, err := bootstrap.New(cfg, bootstrap.Options{})
		if err != nil {
			return err
		}

		if renderHTML {
			body, status, err := res.App.Render(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "status %d\n", status)
			_, err = os.Stdout.Write(body)
			return err
		}

		v, ok := res.App.Resolve(path)
		if !ok {
			msg := fmt.Sprintf("no route for %s", path)
			if s := res.Router.Suggest(path); len(s) > 0 {
				msg += " (did you mean " + strings.Join(s, ", ") + "?)"
			}
			return fmt.Errorf("%s", msg)
		}
		md, ok := v.(view.Markdowner)
		if !ok {
			return fmt.Errorf("view %s has no markdown source; use --html", v.Name())
		}
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
		if err != nil {
			return err
		}
		out, err := r.Render(md.Markdown())
		if err != nil {
			return err
		}
		fmt.Println(mutedStyle.Render(path + " → " + v.Name()))
		fmt.Print(out)
		return nil
	},
}
