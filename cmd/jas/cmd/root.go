package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "jas",
	Short: "JSON-as-Syntax expression engine",
	Long: `jas evaluates JSON-as-Syntax (JAS) expressions: JSON documents whose
shape is itself the syntax tree of an expression language — arithmetic,
comparisons, logical connectives, list algorithms (any_of/all_of/transform/...),
variable references and function calls, all spelled using ordinary JSON
objects, arrays, and "@"/"$"-prefixed strings.

A document is translated into an expression tree and evaluated against a
context that supplies variables and, optionally, a historical snapshot
comparison (field/snchg/evchg/...).`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
