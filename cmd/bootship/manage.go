package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/eringen/bootship"
	"github.com/eringen/bootship/theme"
)

var optionCmd = &cobra.Command{
	Use:   "option",
	Short: "Read or change site options",
}

var optionGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print an option value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()
		v, err := app.Store.Option(args[0], "")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var optionSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set an option value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()
		return app.Store.SetOption(args[0], args[1])
	},
}

var (
	userName     string
	userRole     string
	userPassword string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage admin users",
}

var userAddCmd = &cobra.Command{
	Use:   "add <login>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if userPassword == "" {
			return fmt.Errorf("--password is required")
		}
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()
		name := userName
		if name == "" {
			name = args[0]
		}
		u, err := app.Store.CreateUser(args[0], name, userRole, userPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s %q (id %d)\n", u.Role, u.Login, u.ID)
		return nil
	},
}

var (
	widgetID    string
	widgetClass string
	widgetTitle string
)

var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Manage sidebar widgets",
}

var widgetAddCmd = &cobra.Command{
	Use:   "add <sidebar> <content>",
	Short: "Append a widget to a sidebar",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()
		if err := setupTheme(app); err != nil {
			return err
		}
		if !knownSidebar(app.Theme, args[0]) {
			return fmt.Errorf("unknown sidebar %q", args[0])
		}
		id := widgetID
		if id == "" {
			id = "text"
		}
		return app.Store.AddWidget(theme.Widget{
			SidebarID: args[0],
			WidgetID:  id,
			Class:     widgetClass,
			Title:     widgetTitle,
			Content:   args[1],
		})
	},
}

func knownSidebar(th *theme.Theme, id string) bool {
	for _, s := range th.Supports().Sidebars {
		if s.ID == id {
			return true
		}
	}
	return false
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Manage navigation menus",
}

var menuAddCmd = &cobra.Command{
	Use:   "add <location> <label> <url>",
	Short: "Append an entry to a menu location",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()
		return app.Store.AddMenuItem(theme.MenuItem{Location: args[0], Label: args[1], URL: args[2]})
	},
}

var thumbnailsCmd = &cobra.Command{
	Use:   "thumbnails",
	Short: "Regenerate the image sizes of every uploaded image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()
		if err := setupTheme(app); err != nil {
			return err
		}
		n, err := app.RegenerateSizes()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "regenerated %d images\n", n)
		return nil
	},
}

func init() {
	optionCmd.AddCommand(optionGetCmd, optionSetCmd)

	userAddCmd.Flags().StringVar(&userName, "name", "", "display name (defaults to the login)")
	userAddCmd.Flags().StringVar(&userRole, "role", bootship.RoleAuthor, "role: administrator, editor, author, contributor or subscriber")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "password")
	userCmd.AddCommand(userAddCmd)

	widgetAddCmd.Flags().StringVar(&widgetID, "id", "", "widget id (default \"text\")")
	widgetAddCmd.Flags().StringVar(&widgetClass, "class", "", "extra widget CSS class")
	widgetAddCmd.Flags().StringVar(&widgetTitle, "title", "", "widget title")
	widgetCmd.AddCommand(widgetAddCmd)

	menuCmd.AddCommand(menuAddCmd)
}

func setupTheme(app *bootship.App) error {
	lang, err := language.Parse(app.Config.Language)
	if err != nil {
		return fmt.Errorf("site language %q: %w", app.Config.Language, err)
	}
	return app.SetupTheme(lang)
}
