package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/mdplay/internal/config"
	"github.com/oakwood-commons/mdplay/internal/playground"
	"github.com/oakwood-commons/mdplay/pkg/settings"
)

// nightlyVersion is the placeholder version of builds without ldflags.
const nightlyVersion = "v0.0.0-nightly"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print mdplay version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := aboutConfig()
		a := cfg.App.About
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, cliVersionString())
		if a.GitCommit != "" {
			fmt.Fprintf(out, "commit: %s\n", a.GitCommit)
		} else if c := settings.VersionInformation.Commit; c != "" && c != "unknown" {
			fmt.Fprintf(out, "commit: %s\n", c)
		}
		if t := settings.VersionInformation.BuildTime; t != "" && t != "unknown" {
			fmt.Fprintf(out, "built: %s\n", t)
		}
		fmt.Fprintf(out, "platform: %s/%s\n", a.BuildOS, a.BuildArch)
		return nil
	},
}

// buildVersion is the ldflags version, or empty so build info decides.
func buildVersion() string {
	v := settings.VersionInformation.BuildVersion
	if v == "" || v == nightlyVersion {
		return ""
	}
	return v
}

// aboutConfig loads the configuration for help and version text. Errors
// fall back to the embedded defaults so help always renders.
func aboutConfig() config.File {
	cfg, err := config.Loader{Version: buildVersion()}.Load(config.ResolvePath(configFile))
	if err != nil {
		cfg, _ = config.Loader{Version: buildVersion()}.Load("")
	}
	return cfg
}

// cliVersionString builds a human-readable version string for CLI output and Cobra's --version flag.
func cliVersionString() string {
	a := aboutConfig().App.About
	name := a.Name
	if name == "" {
		name = settings.CliBinaryName
	}
	version := a.Version
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf("%s %s (%s)", name, version, a.GoVersion)
}

func getCLIShortHelp() string {
	a := aboutConfig().App.About
	if a.Description == "" {
		return "Markdown parser playground"
	}
	return a.Description
}

func getCLILongHelp() string {
	a := aboutConfig().App.About
	var b strings.Builder
	b.WriteString(getCLIShortHelp())
	b.WriteString("\n\nEdit markdown on the left and watch the syntax tree, frontmatter, HTML\n")
	b.WriteString("source and rendered preview update on the right. Activating a tree node\n")
	b.WriteString("selects its source text. Press F1 inside the playground for all keys.\n")
	for _, d := range a.Details {
		b.WriteString("\n" + d)
	}
	if a.RepositoryURL != "" {
		b.WriteString("\n" + a.RepositoryURL)
	}
	return b.String()
}

func viewNames() []string {
	names := make([]string, len(playground.ViewModes))
	for i, m := range playground.ViewModes {
		names[i] = m.String()
	}
	return names
}
