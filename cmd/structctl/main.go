// Command structctl previews tournament structures from the terminal.
//
// Usage:
//
//	structctl preview --format groupsPlayoffs --teams 16 --max-group-size 4 --advance 2
//	structctl preview --format fast --teams 20 --group-size 4 --advance 2 --json
//	structctl validate --file draft.json
//	structctl rules --rules ./rules.yaml
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Dosada05/tournament-structure/config"
	"github.com/Dosada05/tournament-structure/structure"
)

func main() {
	_ = godotenv.Load(".env")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var rulesPath string
	root := &cobra.Command{
		Use:           "structctl",
		Short:         "Tournament structure preview CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&rulesPath, "rules", os.Getenv("STRUCTURE_RULES_PATH"), "YAML file overriding format rules")

	loadRules := func() (structure.Rules, error) {
		return config.LoadRules(rulesPath)
	}

	root.AddCommand(previewCmd(loadRules))
	root.AddCommand(validateCmd(loadRules))
	root.AddCommand(rulesCmd(loadRules))
	return root
}

// --------------------------------------------------------------------------
// preview command
// --------------------------------------------------------------------------

func previewCmd(loadRules func() (structure.Rules, error)) *cobra.Command {
	var (
		d      structure.Draft
		format string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Validate a draft given as flags and print the derived plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := loadRules()
			if err != nil {
				return err
			}
			d.Format = structure.FormatKind(format)
			return printPlan(cmd.OutOrStdout(), cmd.ErrOrStderr(), rules, d, asJSON)
		},
	}
	f := cmd.Flags()
	f.StringVar(&format, "format", "", "format kind: league, knockout, groupsPlayoffs or fast")
	f.IntVar(&d.TeamCount, "teams", 0, "number of teams")
	f.IntVar(&d.MaxGroupSize, "max-group-size", 0, "largest group size (groupsPlayoffs)")
	f.IntVar(&d.DesiredGroupSize, "desired-group-size", 0, "target group size, legacy rounding mode (groupsPlayoffs)")
	f.IntVar(&d.GroupSize, "group-size", 0, "group size (fast)")
	f.IntVar(&d.BaseAdvance, "advance", 0, "teams advancing from each group")
	f.StringVar(&d.LeagueMode, "league-mode", "", "league legs: single or twoLegs")
	f.StringVar(&d.GroupMode, "group-mode", "", "group legs: single or twoLegs")
	f.StringVar(&d.PlayoffsMode, "playoffs-mode", "", "playoffs series: single, bo3, bo5, bo7 or bo9")
	f.StringVar(&d.Seeding, "seeding", "", "seeding policy: random or manual")
	f.IntVar(&d.RoundMinutes, "round-minutes", 0, "round length in minutes (fast)")
	f.BoolVar(&asJSON, "json", false, "print the plan as JSON")
	_ = cmd.MarkFlagRequired("format")
	return cmd
}

// --------------------------------------------------------------------------
// validate command
// --------------------------------------------------------------------------

func validateCmd(loadRules func() (structure.Rules, error)) *cobra.Command {
	var (
		file   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a JSON draft read from a file or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := loadRules()
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if file != "" && file != "-" {
				fh, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("open draft: %w", err)
				}
				defer fh.Close()
				in = fh
			}

			var d structure.Draft
			if err := json.NewDecoder(in).Decode(&d); err != nil {
				return fmt.Errorf("decode draft: %w", err)
			}
			return printPlan(cmd.OutOrStdout(), cmd.ErrOrStderr(), rules, d, asJSON)
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "draft JSON file, - for stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	return cmd
}

// --------------------------------------------------------------------------
// rules command
// --------------------------------------------------------------------------

func rulesCmd(loadRules func() (structure.Rules, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the effective format rules as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := loadRules()
			if err != nil {
				return err
			}
			out, err := config.MarshalRules(rules)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

// --------------------------------------------------------------------------
// helpers
// --------------------------------------------------------------------------

var errInvalidDraft = errors.New("draft is invalid")

func printPlan(out, errOut io.Writer, rules structure.Rules, d structure.Draft, asJSON bool) error {
	plan, err := rules.Validate(d)
	if err != nil {
		var verrs structure.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fmt.Fprintf(errOut, "%s: %s\n", fe.Field, fe.Message)
		}
		return errInvalidDraft
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	}
	_, err = fmt.Fprintln(out, plan.Summary())
	return err
}
