package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rental-backend/internal/agreement"
	"rental-backend/internal/repositories"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage the agreement template",
}

var templateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active agreement template",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		tpl, err := repositories.NewTemplateRepository(pool).GetActive(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), tpl)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tpl.Content)
		return nil
	},
}

var templateLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Replace the active agreement template with the contents of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if err := agreement.Validate(string(content)); err != nil {
			return err
		}

		ctx := cmd.Context()
		pool, err := connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		tpl, err := repositories.NewTemplateRepository(pool).Save(ctx, string(content))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "template saved (%d bytes, updated %s)\n", len(tpl.Content), tpl.UpdatedAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var templateCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Report the recognized and unknown placeholders of a template file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return checkTemplate(cmd.OutOrStdout(), string(content))
	},
}

type templateReport struct {
	Recognized []string `json:"recognized"`
	Unknown    []string `json:"unknown"`
	Missing    []string `json:"missing"`
}

func checkTemplate(w io.Writer, content string) error {
	found, unknown, err := agreement.Inspect(content)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(found))
	for _, name := range found {
		seen[name] = true
	}
	report := templateReport{Recognized: found, Unknown: unknown, Missing: []string{}}
	for _, name := range agreement.Placeholders {
		if !seen[name] {
			report.Missing = append(report.Missing, name)
		}
	}
	if report.Recognized == nil {
		report.Recognized = []string{}
	}
	if report.Unknown == nil {
		report.Unknown = []string{}
	}

	if jsonOutput {
		return printJSON(w, report)
	}
	fmt.Fprintf(w, "recognized: %s\n", list(report.Recognized))
	fmt.Fprintf(w, "unknown:    %s\n", list(report.Unknown))
	fmt.Fprintf(w, "not used:   %s\n", list(report.Missing))
	return nil
}

func list(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func init() {
	templateCmd.AddCommand(templateShowCmd, templateLoadCmd, templateCheckCmd)
	rootCmd.AddCommand(templateCmd)
}
