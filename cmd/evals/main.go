// Command evals inspects the tool selection evaluation suites.
//
// Usage:
//
//	go run ./cmd/evals --dir ./evals --suite all
//
// It loads the suites, checks that they only reference registered tools,
// and reports coverage. Running them against a model means implementing
// evals.ToolSelector and calling the Evaluate functions.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/olgasafonova/mediawiki-mcp-server/evals"
	"github.com/olgasafonova/mediawiki-mcp-server/tools"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		dir     string
		suite   string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:          "evals",
		Short:        "Inspect MediaWiki MCP tool selection evaluation suites",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "MediaWiki MCP Server - Evaluation Suites")
			fmt.Fprintln(out, "========================================")
			fmt.Fprintln(out)

			switch suite {
			case "tool_selection":
				return showToolSelection(out, dir, verbose)
			case "confusion_pairs":
				return showConfusionPairs(out, dir, verbose)
			case "arguments":
				return showArguments(out, dir, verbose)
			case "all":
				return showAll(out, dir, verbose)
			default:
				return fmt.Errorf("unknown suite %q", suite)
			}
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "./evals", "Directory containing eval JSON files")
	cmd.Flags().StringVar(&suite, "suite", "all", "Suite to show: tool_selection, confusion_pairs, arguments, or all")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show every test case")
	return cmd
}

func showToolSelection(out io.Writer, dir string, verbose bool) error {
	suite, err := evals.LoadToolSelectionSuite(filepath.Join(dir, evals.ToolSelectionFile))
	if err != nil {
		return fmt.Errorf("loading tool selection suite: %w", err)
	}

	printHeader(out, "Tool Selection Suite", suite.Name, suite.Version, suite.Description)
	fmt.Fprintf(out, "Total Tests: %d\n\n", len(suite.Tests))

	categories := make(map[string]int)
	byTool := make(map[string]int)
	for _, test := range suite.Tests {
		categories[test.Category]++
		byTool[test.ExpectedTool]++
	}
	printCounts(out, "Tests by Category:", categories, 15)
	printCounts(out, "Tests by Tool:", byTool, 32)

	if verbose {
		fmt.Fprintln(out, "Test Cases:")
		for _, test := range suite.Tests {
			fmt.Fprintf(out, "  [%s] %s\n", test.ID, test.Input)
			fmt.Fprintf(out, "    -> %s\n", test.ExpectedTool)
			if len(test.NotTools) > 0 {
				fmt.Fprintf(out, "    not %v\n", test.NotTools)
			}
		}
	}
	return nil
}

func showConfusionPairs(out io.Writer, dir string, verbose bool) error {
	suite, err := evals.LoadConfusionPairSuite(filepath.Join(dir, evals.ConfusionPairFile))
	if err != nil {
		return fmt.Errorf("loading confusion pairs suite: %w", err)
	}

	printHeader(out, "Confusion Pairs Suite", suite.Name, suite.Version, suite.Description)
	total := 0
	for _, pair := range suite.Pairs {
		total += len(pair.Tests)
	}
	fmt.Fprintf(out, "Total Pairs: %d\nTotal Tests: %d\n", len(suite.Pairs), total)

	for _, pair := range suite.Pairs {
		fmt.Fprintf(out, "\n  %s:\n", pair.ID)
		fmt.Fprintf(out, "    Tools: %s\n", strings.Join(pair.Tools, ", "))
		fmt.Fprintf(out, "    Rule: %s\n", pair.Disambiguation)
		fmt.Fprintf(out, "    Tests: %d\n", len(pair.Tests))

		if verbose {
			for _, test := range pair.Tests {
				fmt.Fprintf(out, "      %q\n", test.Input)
				fmt.Fprintf(out, "        -> %s (%s)\n", test.Expected, test.Reason)
			}
		}
	}
	fmt.Fprintln(out)
	return nil
}

func showArguments(out io.Writer, dir string, verbose bool) error {
	suite, err := evals.LoadArgumentSuite(filepath.Join(dir, evals.ArgumentFile))
	if err != nil {
		return fmt.Errorf("loading argument suite: %w", err)
	}

	printHeader(out, "Argument Suite", suite.Name, suite.Version, suite.Description)
	fmt.Fprintf(out, "Total Tests: %d\n\n", len(suite.Tests))

	byTool := make(map[string]int)
	for _, test := range suite.Tests {
		byTool[test.Tool]++
	}
	printCounts(out, "Tests by Tool:", byTool, 32)

	fmt.Fprintln(out, "Rules:")
	fmt.Fprintf(out, "  Titles: %s\n", suite.Rules.TitleFormat)
	fmt.Fprintf(out, "  Drafts: %s\n", suite.Rules.DraftTitles)
	fmt.Fprintf(out, "  Limits: %s\n", suite.Rules.LimitHandling)
	fmt.Fprintf(out, "  Summaries: %s\n\n", suite.Rules.SummaryHandling)

	if verbose {
		fmt.Fprintln(out, "Test Cases:")
		for _, test := range suite.Tests {
			fmt.Fprintf(out, "  [%s] %s\n", test.ID, test.Input)
			fmt.Fprintf(out, "    Tool: %s\n", test.Tool)
			fmt.Fprintf(out, "    Required: %v\n", test.RequiredArgs)
			fmt.Fprintf(out, "    Expected: %v\n", test.ExpectedArgs)
			if len(test.ForbiddenArgs) > 0 {
				fmt.Fprintf(out, "    Forbidden: %v\n", test.ForbiddenArgs)
			}
			if test.ArgNotes != "" {
				fmt.Fprintf(out, "    Notes: %s\n", test.ArgNotes)
			}
		}
	}
	return nil
}

func showAll(out io.Writer, dir string, verbose bool) error {
	suites, err := evals.LoadAll(dir)
	if err != nil {
		return err
	}

	confusionTests := 0
	for _, pair := range suites.ConfusionPairs.Pairs {
		confusionTests += len(pair.Tests)
	}

	fmt.Fprintf(out, "Loaded all evaluation suites from: %s\n\n", dir)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintln(out, "--------")
	fmt.Fprintf(out, "Tool Selection Tests:   %d\n", len(suites.ToolSelection.Tests))
	fmt.Fprintf(out, "Confusion Pair Tests:   %d (across %d pairs)\n", confusionTests, len(suites.ConfusionPairs.Pairs))
	fmt.Fprintf(out, "Argument Tests:         %d\n", len(suites.Arguments.Tests))
	fmt.Fprintln(out, "--------------------------")
	fmt.Fprintf(out, "Total Evaluation Tests: %d\n\n", suites.TestCount())

	covered := suites.Coverage()
	fmt.Fprintf(out, "Tool Coverage: %d of %d registered tools\n", len(covered), len(tools.AllTools))
	for _, name := range tools.Names() {
		if verbose || !slices.Contains(covered, name) {
			mark := "ok"
			if !slices.Contains(covered, name) {
				mark = "MISSING"
			}
			fmt.Fprintf(out, "  %-7s %s\n", mark, name)
		}
	}

	if problems := suites.Validate(tools.Names()); len(problems) > 0 {
		fmt.Fprintln(out, "\nProblems:")
		for _, p := range problems {
			fmt.Fprintf(out, "  - %s\n", p)
		}
		return fmt.Errorf("%d suite entries reference unknown tools", len(problems))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "To run against a model, implement evals.ToolSelector")
	fmt.Fprintln(out, "and call EvaluateToolSelection, EvaluateConfusionPairs or EvaluateArguments.")
	return nil
}

func printHeader(out io.Writer, kind, name, version, description string) {
	fmt.Fprintf(out, "%s: %s\n", kind, name)
	fmt.Fprintf(out, "Version: %s\n", version)
	fmt.Fprintf(out, "Description: %s\n", description)
}

func printCounts(out io.Writer, title string, counts map[string]int, width int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintln(out, title)
	for _, k := range keys {
		fmt.Fprintf(out, "  %-*s: %d\n", width, k, counts[k])
	}
	fmt.Fprintln(out)
}
