package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mossgarden/wpnav/internal/blockparse"
	"github.com/mossgarden/wpnav/internal/nav"
)

var convertRender string

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert menus or pages into navigation blocks",
	Long: `Convert a navigation source into a navigation block list.

The result can be rendered as serialized block markup (--render html),
as block descriptors (--render json), or chosen automatically from the
output format (--render auto, the default).`,
}

var convertMenuCmd = &cobra.Command{
	Use:   "menu <menu-id>",
	Short: "Convert one classic menu into blocks",
	Long: `Convert one classic menu into a navigation block tree.

Menu items become navigation-link blocks nested the way the menu is
nested. Items that already carry serialized block markup are parsed;
markup that does not parse is preserved as a freeform block.

Examples:
  wpnav convert menu 2
  wpnav convert menu 2 --render html
  wpnav convert menu 2 --output json --query '.[].attributes.label'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		menuID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid menu id: %s", args[0])
		}

		items, err := GetClient().ListMenuItems(cmd.Context(), menuID)
		if err != nil {
			return fmt.Errorf("failed to fetch menu items: %w", err)
		}

		var blocks []nav.Block
		if len(items) == 0 {
			blocks = []nav.Block{}
		} else {
			blocks = nav.BlocksFromTree(nav.BuildTree(items), blockparse.Parser{})
		}
		return emitBlocks(cmd, blocks)
	},
}

var convertPagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Convert all top-level pages into link blocks",
	Long: `Convert every published top-level page into a flat list of
navigation-link blocks, ascending by page id.

Examples:
  wpnav convert pages
  wpnav convert pages --render html`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, err := GetClient().ListPages(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch pages: %w", err)
		}
		return emitBlocks(cmd, nav.BlocksFromPages(pages))
	},
}

var convertEmptyCmd = &cobra.Command{
	Use:   "empty",
	Short: "Produce an empty block list",
	Long: `Produce an empty navigation block list. Needs no site access;
useful as a scripting baseline.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return emitBlocks(cmd, []nav.Block{})
	},
}

// emitBlocks renders a block list according to --render and the output
// format.
func emitBlocks(cmd *cobra.Command, blocks []nav.Block) error {
	render := strings.ToLower(strings.TrimSpace(convertRender))
	switch render {
	case "", "auto":
		if structuredOutputRequested() {
			return printStructured(blocks)
		}
		return writeMarkup(stdoutFromContext(cmd.Context()), blocks)
	case "json":
		return printStructured(blocks)
	case "html":
		return writeMarkup(stdoutFromContext(cmd.Context()), blocks)
	default:
		return fmt.Errorf("invalid --render %q (expected auto|json|html)", convertRender)
	}
}

func writeMarkup(out io.Writer, blocks []nav.Block) error {
	markup := blockparse.Serialize(blocks)
	if markup == "" {
		return nil
	}
	_, err := fmt.Fprintln(out, markup)
	return err
}

func init() {
	convertCmd.PersistentFlags().StringVar(&convertRender, "render", "auto", "Block rendering (auto|json|html)")

	convertCmd.AddCommand(convertMenuCmd)
	convertCmd.AddCommand(convertPagesCmd)
	convertCmd.AddCommand(convertEmptyCmd)
	rootCmd.AddCommand(convertCmd)
}
