package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mossgarden/wpnav/internal/blockparse"
	"github.com/mossgarden/wpnav/internal/nav"
	"github.com/mossgarden/wpnav/internal/output"
	"github.com/mossgarden/wpnav/internal/placeholder"
)

var createFrom string

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a navigation block list from a chosen source",
	Long: `Create a navigation block list by choosing a source: an existing
menu, all top-level pages, or nothing.

Without --from the available sources are listed and one is chosen
interactively. With --from the choice is scripted:

  wpnav create --from menu:2
  wpnav create --from pages
  wpnav create --from empty`,
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := stdoutFromContext(ctx)
	errOut := stderrFromContext(ctx)
	quiet := output.QuietFromContext(ctx)

	// Starting empty needs no site access; emit straight away.
	if strings.EqualFold(strings.TrimSpace(createFrom), "empty") {
		return emitBlocks(cmd, []nav.Block{})
	}

	var emitErr error
	ctrl := placeholder.New(GetClient(), blockparse.Parser{}, func(blocks []nav.Block, selectAfterInsert bool) {
		emitErr = emitBlocks(cmd, blocks)
	})

	if !quiet {
		fmt.Fprintln(errOut, "Loading menus and pages...")
	}
	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("failed to load navigation sources: %w", err)
	}

	if createFrom != "" {
		opt, err := parseCreateOption(createFrom, ctrl)
		if err != nil {
			return err
		}
		ctrl.Select(opt)
	} else {
		opt, err := promptCreateOption(cmd, ctrl, out)
		if err != nil {
			return err
		}
		ctrl.Select(opt)
	}

	if err := ctrl.WaitCreatable(ctx); err != nil {
		return fmt.Errorf("failed to load the selected source: %w", err)
	}
	if err := ctrl.Create(); err != nil {
		return err
	}
	return emitErr
}

// parseCreateOption resolves a --from value: "empty", "pages", "menu:<id>",
// or a bare menu id.
func parseCreateOption(from string, ctrl *placeholder.Controller) (placeholder.CreateOption, error) {
	value := strings.ToLower(strings.TrimSpace(from))
	switch value {
	case "empty":
		return placeholder.OptionEmpty, nil
	case "pages":
		return placeholder.OptionAllPages, nil
	}

	value = strings.TrimPrefix(value, "menu:")
	menuID, err := strconv.Atoi(value)
	if err != nil {
		return placeholder.CreateOption{}, fmt.Errorf("invalid --from %q (expected empty|pages|menu:<id>)", from)
	}
	for _, opt := range ctrl.Options() {
		if opt.Kind == placeholder.KindMenu && opt.ID == menuID {
			return opt, nil
		}
	}
	return placeholder.CreateOption{}, fmt.Errorf("menu %d not found", menuID)
}

// promptCreateOption lists the sources and reads a selection from stdin.
// An empty answer keeps the default selection when one exists.
func promptCreateOption(cmd *cobra.Command, ctrl *placeholder.Controller, out io.Writer) (placeholder.CreateOption, error) {
	opts := ctrl.Options()
	selected := ctrl.Selected()

	fmt.Fprintln(out, "Navigation sources:")
	for i, opt := range opts {
		marker := " "
		if selected != nil && *selected == opt {
			marker = "*"
		}
		label := opt.Name
		if opt.Kind == placeholder.KindMenu {
			label = fmt.Sprintf("Menu: %s (id %d)", opt.Name, opt.ID)
		}
		fmt.Fprintf(out, "%s %d) %s\n", marker, i+1, label)
	}
	fmt.Fprintf(out, "Select source [1-%d]: ", len(opts))

	reader := bufio.NewReader(stdinFromContext(cmd.Context()))
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		if selected != nil {
			return *selected, nil
		}
		return placeholder.CreateOption{}, fmt.Errorf("no source selected")
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		if selected != nil {
			return *selected, nil
		}
		return placeholder.CreateOption{}, fmt.Errorf("no source selected")
	}

	index, err := strconv.Atoi(answer)
	if err != nil || index < 1 || index > len(opts) {
		return placeholder.CreateOption{}, fmt.Errorf("invalid selection: %s", answer)
	}
	return opts[index-1], nil
}

func init() {
	createCmd.Flags().StringVar(&createFrom, "from", "", "Source selection (empty|pages|menu:<id>)")
	rootCmd.AddCommand(createCmd)
}
