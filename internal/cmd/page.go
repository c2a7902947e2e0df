package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mossgarden/wpnav/internal/nav"
	"github.com/mossgarden/wpnav/internal/output"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Inspect published pages",
}

var pageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List top-level pages",
	Long: `List published top-level pages, ascending by id. These are the
pages the "add all pages" conversion links to.

Examples:
  wpnav page list
  wpnav page list --output table`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, err := GetClient().ListPages(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list pages: %w", err)
		}

		if structuredOutputRequested() {
			return printStructured(pages)
		}

		out := stdoutFromContext(cmd.Context())
		if GetOutputFormat() == output.FormatTable {
			table := output.Table{Headers: []string{"ID", "TITLE", "LINK"}}
			for _, page := range pages {
				table.Rows = append(table.Rows, []string{strconv.Itoa(page.ID), pageLabel(page), page.Link})
			}
			return printStructured(table)
		}

		if len(pages) == 0 {
			fmt.Fprintln(out, "No pages found.")
			return nil
		}
		for _, page := range pages {
			fmt.Fprintf(out, "%d\t%s\t%s\n", page.ID, pageLabel(page), page.Link)
		}
		return nil
	},
}

func pageLabel(page nav.Page) string {
	if page.Title.Rendered == "" {
		return nav.NoTitleLabel
	}
	return page.Title.Rendered
}

func init() {
	pageCmd.AddCommand(pageListCmd)
	rootCmd.AddCommand(pageCmd)
}
