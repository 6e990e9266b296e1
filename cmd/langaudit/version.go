package main

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"mathcat/langaudit/pkg/telemetry/health"
)

// Set with -ldflags "-X main.Version=...".
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionJSON bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the langaudit version with its git commit, build date and Go
toolchain. --json prints the same document served on /version in watch mode.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := buildInfo()
		w := cmd.OutOrStdout()
		if versionJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}
		fmt.Fprintf(w, "langaudit %s\n", info.Version)
		fmt.Fprintf(w, "Git Commit: %s\n", info.Commit)
		fmt.Fprintf(w, "Build Date: %s\n", info.BuildDate)
		fmt.Fprintf(w, "Go Version: %s\n", info.GoVersion)
		fmt.Fprintf(w, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

func buildInfo() health.VersionInfo {
	return health.VersionInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "print version information as JSON")
	rootCmd.AddCommand(versionCmd)
}
