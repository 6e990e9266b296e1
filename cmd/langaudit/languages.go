package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"mathcat/langaudit/pkg/cli"
	"mathcat/langaudit/pkg/config"
	"mathcat/langaudit/pkg/corpus"
)

var languagesFlags struct {
	format string
}

var languagesCmd = &cobra.Command{
	Use:     "languages",
	Aliases: []string{"list"},
	Short:   "List languages and region variants",
	Long: `List every translation in the rules directory with its number of
audited rule files. Region variants are listed as "language-region".

Examples:
  langaudit languages
  langaudit languages --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cli.ParseOutputFormat(languagesFlags.format)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if _, err := setupLogger(cfg); err != nil {
			return err
		}
		return listLanguages(cmd.OutOrStdout(), cfg, format)
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)

	languagesCmd.Flags().StringVar(&languagesFlags.format, "format", "text", "output format: text, json, csv")
}

// languageTable renders corpus languages as rows.
type languageTable []corpus.Language

func (t languageTable) Headers() []string {
	return []string{"language", "region", "files"}
}

func (t languageTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, l := range t {
		rows[i] = []string{l.Code, strconv.FormatBool(l.Region), strconv.Itoa(l.FileCount)}
	}
	return rows
}

func listLanguages(w io.Writer, cfg *config.Config, format cli.OutputFormat) error {
	c := newCorpus(cfg)
	if _, err := os.Stat(c.Root); errors.Is(err, os.ErrNotExist) {
		return cli.NewConfigError("rules-dir", fmt.Sprintf("rules directory not found: %s", c.Root))
	}

	langs, err := c.Languages()
	if err != nil {
		return cli.NewCommandError("languages", err)
	}

	return writeListing(w, format, langs, languageTable(langs))
}
