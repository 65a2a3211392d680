package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/mdplay/internal/markdown"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List parser options and their defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadAppConfig(configFile, "")
		if err != nil {
			return err
		}
		opts, err := cfg.ParserOptions()
		if err != nil {
			return err
		}
		if opts, err = applyOptionFlags(opts, optionFlags); err != nil {
			return err
		}
		return printOptions(cmd.OutOrStdout(), opts)
	},
}

// applyOptionFlags applies "name=bool" assignments in order. A bare name
// enables the option.
func applyOptionFlags(opts markdown.Options, assignments []string) (markdown.Options, error) {
	for _, a := range assignments {
		name, raw, hasValue := strings.Cut(a, "=")
		flag, err := markdown.ParseFlag(name)
		if err != nil {
			return opts, fmt.Errorf("--option %s: %w", a, err)
		}
		on := true
		if hasValue {
			on, err = strconv.ParseBool(strings.TrimSpace(raw))
			if err != nil {
				return opts, fmt.Errorf("--option %s: value must be true or false", a)
			}
		}
		opts = opts.With(flag, on)
	}
	return opts, nil
}

func printOptions(w io.Writer, opts markdown.Options) error {
	keyW := runewidth.StringWidth("OPTION")
	for _, info := range markdown.Flags {
		keyW = max(keyW, runewidth.StringWidth(string(info.Flag)))
	}
	row := func(key, state, desc string) string {
		return runewidth.FillRight(key, keyW) + "  " + runewidth.FillRight(state, 5) + "  " + desc + "\n"
	}

	var b strings.Builder
	b.WriteString(row("OPTION", "VALUE", "DESCRIPTION"))
	for _, info := range markdown.Flags {
		state := "off"
		if opts.Enabled(info.Flag) {
			state = "on"
		}
		b.WriteString(row(string(info.Flag), state, info.Label+": "+info.Description))
	}
	if opts.MaxInputBytes > 0 || opts.MaxNodes > 0 {
		fmt.Fprintf(&b, "\nlimits: max_input_bytes=%d max_nodes=%d\n", opts.MaxInputBytes, opts.MaxNodes)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
