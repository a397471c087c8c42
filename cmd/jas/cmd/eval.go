package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sepcon/go-jas/internal/config"
	"github.com/sepcon/go-jas/pkg/jas"
)

var (
	evalExpr       string
	evalOldJSON    string
	evalNewJSON    string
	evalConfigPath string
)

var evalCmd = &cobra.Command{
	Use:   "eval [file]",
	Short: "Translate and evaluate a JAS expression",
	Long: `eval reads a JAS expression document — either from the given file or
from the -e/--expr flag — translates it, evaluates it, and prints the
resulting value as JSON.

Passing --old/--new seeds a historical evaluation context comparing the two
JSON snapshots, so "@field"/"@snchg"/"@evchg"/... context functions resolve
against them; without those flags the expression evaluates against a plain,
empty context.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		expression, err := readExpression(args)
		if err != nil {
			exitWithError("%v", err)
		}

		cfg := config.Default()
		if evalConfigPath != "" {
			cfg, err = config.Load(evalConfigPath)
			if err != nil {
				exitWithError("%v", err)
			}
		}
		engine := jas.NewWithConfig(cfg)

		var ctx jas.Context
		if evalOldJSON != "" || evalNewJSON != "" {
			ctx = jas.NewHistoricalContext(evalOldJSON, evalNewJSON)
		} else {
			ctx = jas.NewRootContext()
		}

		result, err := engine.Evaluate(expression, ctx)
		if err != nil {
			exitWithError("%v", err)
		}

		out, err := json.Marshal(result)
		if err != nil {
			exitWithError("encoding result: %v", err)
		}
		fmt.Println(string(out))
	},
}

func readExpression(args []string) ([]byte, error) {
	if evalExpr != "" {
		return []byte(evalExpr), nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("provide an expression file or -e/--expr")
	}
	return os.ReadFile(args[0])
}

func init() {
	evalCmd.Flags().StringVarP(&evalExpr, "expr", "e", "", "JAS expression JSON text (overrides the file argument)")
	evalCmd.Flags().StringVar(&evalOldJSON, "old", "", "previous snapshot JSON, for historical context functions")
	evalCmd.Flags().StringVar(&evalNewJSON, "new", "", "current snapshot JSON, for historical context functions")
	evalCmd.Flags().StringVar(&evalConfigPath, "config", "", "optional YAML engine config file")
	rootCmd.AddCommand(evalCmd)
}
