package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mossgarden/wpnav/internal/nav"
	"github.com/mossgarden/wpnav/internal/output"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Inspect classic navigation menus",
	Long: `Inspect the classic navigation menus of a WordPress site.

Menus and their items are read over the REST API; nothing is modified.`,
}

var menuListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all menus",
	Long: `List all classic navigation menus of the site.

Examples:
  wpnav menu list
  wpnav menu list --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		menus, err := GetClient().ListMenus(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list menus: %w", err)
		}

		if structuredOutputRequested() {
			return printStructured(menus)
		}

		out := stdoutFromContext(cmd.Context())
		if GetOutputFormat() == output.FormatTable {
			table := output.Table{Headers: []string{"ID", "NAME"}}
			for _, menu := range menus {
				table.Rows = append(table.Rows, []string{strconv.Itoa(menu.ID), menu.Name})
			}
			return printStructured(table)
		}

		if len(menus) == 0 {
			fmt.Fprintln(out, "No menus found.")
			return nil
		}
		for _, menu := range menus {
			fmt.Fprintf(out, "%d\t%s\n", menu.ID, menu.Name)
		}
		return nil
	},
}

var menuItemsCmd = &cobra.Command{
	Use:   "items <menu-id>",
	Short: "List the items of a menu",
	Long: `List the items of one menu in editor order.

By default items print flat, one per line. With --tree the resolved
parent/child hierarchy is shown instead.

Examples:
  wpnav menu items 2
  wpnav menu items 2 --tree
  wpnav menu items 2 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		menuID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid menu id: %s", args[0])
		}
		showTree, _ := cmd.Flags().GetBool("tree")

		items, err := GetClient().ListMenuItems(cmd.Context(), menuID)
		if err != nil {
			return fmt.Errorf("failed to list menu items: %w", err)
		}

		if structuredOutputRequested() {
			return printStructured(items)
		}

		out := stdoutFromContext(cmd.Context())
		if len(items) == 0 {
			fmt.Fprintln(out, "Menu has no items.")
			return nil
		}

		if showTree {
			renderItemTree(out, nav.BuildTree(items), 0)
			return nil
		}
		for _, item := range items {
			fmt.Fprintf(out, "%d\t%s\t%s\n", item.ID, itemLabel(item), item.URL)
		}
		return nil
	},
}

func itemLabel(item nav.MenuItem) string {
	if item.Title.Rendered == "" {
		return nav.NoTitleLabel
	}
	return item.Title.Rendered
}

func renderItemTree(out io.Writer, nodes []*nav.TreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, node := range nodes {
		line := fmt.Sprintf("%s- %s", indent, itemLabel(node.MenuItem))
		if node.URL != "" {
			line += " (" + node.URL + ")"
		}
		fmt.Fprintln(out, line)
		renderItemTree(out, node.Children, depth+1)
	}
}

func init() {
	menuItemsCmd.Flags().Bool("tree", false, "Render items as a hierarchy")

	menuCmd.AddCommand(menuListCmd)
	menuCmd.AddCommand(menuItemsCmd)
	rootCmd.AddCommand(menuCmd)
}
