// Package evals measures how reliably a model picks the right MediaWiki tool
// and fills in its arguments from a natural language request.
package evals

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strings"
)

// Suite file names inside an eval directory.
const (
	ToolSelectionFile = "tool_selection.json"
	ConfusionPairFile = "confusion_pairs.json"
	ArgumentFile      = "argument_correctness.json"
)

// ToolSelectionTest is one request together with the tool it should trigger.
type ToolSelectionTest struct {
	ID           string         `json:"id"`
	Category     string         `json:"category"`
	Input        string         `json:"input"`
	ExpectedTool string         `json:"expected_tool"`
	ExpectedArgs map[string]any `json:"expected_args"`
	NotTools     []string       `json:"not_tools"`
}

// ToolSelectionSuite groups tool selection tests.
type ToolSelectionSuite struct {
	Name        string              `json:"name"`
	Version     string              `json:"version"`
	Description string              `json:"description"`
	Tests       []ToolSelectionTest `json:"tests"`
}

// ConfusionPairTest is a request that sits between two similar tools.
type ConfusionPairTest struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Reason   string `json:"reason"`
}

// ConfusionPair names tools a model tends to mix up and the rule that separates them.
type ConfusionPair struct {
	ID             string              `json:"id"`
	Tools          []string            `json:"tools"`
	Disambiguation string              `json:"disambiguation"`
	Tests          []ConfusionPairTest `json:"tests"`
}

// ConfusionPairSuite groups confusion pairs.
type ConfusionPairSuite struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Pairs       []ConfusionPair `json:"pairs"`
}

// ArgumentTest checks the arguments extracted for a given tool.
type ArgumentTest struct {
	ID            string         `json:"id"`
	Tool          string         `json:"tool"`
	Input         string         `json:"input"`
	RequiredArgs  []string       `json:"required_args"`
	ExpectedArgs  map[string]any `json:"expected_args"`
	ForbiddenArgs []string       `json:"forbidden_args"`
	ArgNotes      string         `json:"arg_notes,omitempty"`
}

// ArgumentRules documents how arguments are expected to be shaped.
type ArgumentRules struct {
	TitleFormat     string `json:"title_format"`
	DraftTitles     string `json:"draft_titles"`
	LimitHandling   string `json:"limit_handling"`
	SummaryHandling string `json:"summary_handling"`
}

// ArgumentSuite groups argument tests.
type ArgumentSuite struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Tests       []ArgumentTest `json:"tests"`
	Rules       ArgumentRules  `json:"rules"`
}

// ToolSelectionResult is the outcome of one tool selection test.
type ToolSelectionResult struct {
	TestID       string
	Input        string
	ExpectedTool string
	ActualTool   string
	Passed       bool
	Errors       []string
}

// ConfusionPairResult is the outcome of one confusion pair test.
type ConfusionPairResult struct {
	PairID       string
	TestInput    string
	ExpectedTool string
	ActualTool   string
	Reason       string
	Passed       bool
}

// ArgumentResult is the outcome of one argument test.
type ArgumentResult struct {
	TestID       string
	Tool         string
	Input        string
	Passed       bool
	Errors       []string
	MissingArgs  []string
	WrongArgs    map[string]string // arg -> "expected X, got Y"
	ForbiddenHit []string
}

// EvalMetrics aggregates one evaluation run.
type EvalMetrics struct {
	TotalTests    int
	PassedTests   int
	FailedTests   int
	Accuracy      float64 // PassedTests / TotalTests
	ByCategory    map[string]*CategoryMetrics
	ByTool        map[string]*ToolMetrics
	FailedDetails []string
}

// CategoryMetrics counts results per category.
type CategoryMetrics struct {
	Total  int
	Passed int
	Failed int
}

// ToolMetrics counts selections per tool.
type ToolMetrics struct {
	ExpectedCount  int
	SelectedCount  int
	CorrectCount   int
	FalsePositives int // selected when another tool was expected
	FalseNegatives int // expected but another tool was selected
}

func newMetrics() *EvalMetrics {
	return &EvalMetrics{
		ByCategory: make(map[string]*CategoryMetrics),
		ByTool:     make(map[string]*ToolMetrics),
	}
}

func (m *EvalMetrics) category(name string) *CategoryMetrics {
	if m.ByCategory[name] == nil {
		m.ByCategory[name] = &CategoryMetrics{}
	}
	return m.ByCategory[name]
}

func (m *EvalMetrics) tool(name string) *ToolMetrics {
	if m.ByTool[name] == nil {
		m.ByTool[name] = &ToolMetrics{}
	}
	return m.ByTool[name]
}

func (m *EvalMetrics) record(category string, passed bool, detail string) {
	m.TotalTests++
	c := m.category(category)
	c.Total++
	if passed {
		m.PassedTests++
		c.Passed++
		return
	}
	m.FailedTests++
	c.Failed++
	m.FailedDetails = append(m.FailedDetails, detail)
}

func (m *EvalMetrics) finish() {
	if m.TotalTests > 0 {
		m.Accuracy = float64(m.PassedTests) / float64(m.TotalTests)
	}
}

func loadJSON[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var suite T
	if err := json.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return &suite, nil
}

// LoadToolSelectionSuite loads tool selection tests from a JSON file.
func LoadToolSelectionSuite(path string) (*ToolSelectionSuite, error) {
	return loadJSON[ToolSelectionSuite](path)
}

// LoadConfusionPairSuite loads confusion pair tests from a JSON file.
func LoadConfusionPairSuite(path string) (*ConfusionPairSuite, error) {
	return loadJSON[ConfusionPairSuite](path)
}

// LoadArgumentSuite loads argument tests from a JSON file.
func LoadArgumentSuite(path string) (*ArgumentSuite, error) {
	return loadJSON[ArgumentSuite](path)
}

// Suites holds every suite loaded from an eval directory.
type Suites struct {
	ToolSelection  *ToolSelectionSuite
	ConfusionPairs *ConfusionPairSuite
	Arguments      *ArgumentSuite
}

// LoadAll loads the three suites from dir.
func LoadAll(dir string) (*Suites, error) {
	toolSelection, err := LoadToolSelectionSuite(filepath.Join(dir, ToolSelectionFile))
	if err != nil {
		return nil, fmt.Errorf("loading tool selection: %w", err)
	}

	confusionPairs, err := LoadConfusionPairSuite(filepath.Join(dir, ConfusionPairFile))
	if err != nil {
		return nil, fmt.Errorf("loading confusion pairs: %w", err)
	}

	arguments, err := LoadArgumentSuite(filepath.Join(dir, ArgumentFile))
	if err != nil {
		return nil, fmt.Errorf("loading arguments: %w", err)
	}

	return &Suites{
		ToolSelection:  toolSelection,
		ConfusionPairs: confusionPairs,
		Arguments:      arguments,
	}, nil
}

// TestCount is the number of individual cases across all suites.
func (s *Suites) TestCount() int {
	total := len(s.ToolSelection.Tests) + len(s.Arguments.Tests)
	for _, pair := range s.ConfusionPairs.Pairs {
		total += len(pair.Tests)
	}
	return total
}

// Coverage returns the sorted tool names referenced by any suite.
func (s *Suites) Coverage() []string {
	seen := make(map[string]bool)
	for _, test := range s.ToolSelection.Tests {
		seen[test.ExpectedTool] = true
	}
	for _, pair := range s.ConfusionPairs.Pairs {
		for _, tool := range pair.Tools {
			seen[tool] = true
		}
	}
	for _, test := range s.Arguments.Tests {
		seen[test.Tool] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate reports every suite entry that references a tool outside known.
func (s *Suites) Validate(known []string) []string {
	var problems []string
	check := func(where, name string) {
		if !slices.Contains(known, name) {
			problems = append(problems, fmt.Sprintf("%s: unknown tool %q", where, name))
		}
	}

	for _, test := range s.ToolSelection.Tests {
		check(test.ID, test.ExpectedTool)
		for _, name := range test.NotTools {
			check(test.ID, name)
		}
	}
	for _, pair := range s.ConfusionPairs.Pairs {
		for _, name := range pair.Tools {
			check(pair.ID, name)
		}
		for _, test := range pair.Tests {
			if !slices.Contains(pair.Tools, test.Expected) {
				problems = append(problems, fmt.Sprintf("%s: expected tool %q is not in the pair", pair.ID, test.Expected))
			}
		}
	}
	for _, test := range s.Arguments.Tests {
		check(test.ID, test.Tool)
	}
	return problems
}

// ToolSelector is implemented by a model client or a test double.
type ToolSelector interface {
	// SelectTool returns the tool name and arguments chosen for input.
	SelectTool(input string) (toolName string, args map[string]any, err error)
}

// EvaluateToolSelection runs tool selection tests against a selector.
func EvaluateToolSelection(suite *ToolSelectionSuite, selector ToolSelector) (*EvalMetrics, []ToolSelectionResult) {
	metrics := newMetrics()
	results := make([]ToolSelectionResult, 0, len(suite.Tests))

	for _, test := range suite.Tests {
		metrics.tool(test.ExpectedTool).ExpectedCount++

		actualTool, actualArgs, err := selector.SelectTool(test.Input)
		result := ToolSelectionResult{
			TestID:       test.ID,
			Input:        test.Input,
			ExpectedTool: test.ExpectedTool,
			ActualTool:   actualTool,
			Passed:       true,
		}

		if err != nil {
			result.Passed = false
			result.Errors = append(result.Errors, fmt.Sprintf("selector error: %v", err))
		}

		metrics.tool(actualTool).SelectedCount++
		if actualTool != test.ExpectedTool {
			result.Passed = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("wrong tool: expected %s, got %s", test.ExpectedTool, actualTool))
			metrics.tool(test.ExpectedTool).FalseNegatives++
			metrics.tool(actualTool).FalsePositives++
		} else {
			metrics.tool(test.ExpectedTool).CorrectCount++
		}

		if slices.Contains(test.NotTools, actualTool) {
			result.Passed = false
			result.Errors = append(result.Errors, fmt.Sprintf("selected forbidden tool: %s", actualTool))
		}

		for _, key := range sortedKeys(test.ExpectedArgs) {
			expected := test.ExpectedArgs[key]
			actual, exists := actualArgs[key]
			if !exists {
				result.Passed = false
				result.Errors = append(result.Errors, fmt.Sprintf("missing arg %s (expected %v)", key, expected))
			} else if !compareValues(expected, actual) {
				result.Passed = false
				result.Errors = append(result.Errors,
					fmt.Sprintf("wrong arg %s: expected %v, got %v", key, expected, actual))
			}
		}

		metrics.record(test.Category, result.Passed,
			fmt.Sprintf("[%s] %s: %s", test.ID, test.Input, strings.Join(result.Errors, "; ")))
		results = append(results, result)
	}

	metrics.finish()
	return metrics, results
}

// EvaluateConfusionPairs runs confusion pair tests against a selector.
// Each pair ID is reported as its own category.
func EvaluateConfusionPairs(suite *ConfusionPairSuite, selector ToolSelector) (*EvalMetrics, []ConfusionPairResult) {
	metrics := newMetrics()
	var results []ConfusionPairResult

	for _, pair := range suite.Pairs {
		for _, test := range pair.Tests {
			metrics.tool(test.Expected).ExpectedCount++

			actualTool, _, err := selector.SelectTool(test.Input)
			result := ConfusionPairResult{
				PairID:       pair.ID,
				TestInput:    test.Input,
				ExpectedTool: test.Expected,
				ActualTool:   actualTool,
				Reason:       test.Reason,
				Passed:       err == nil && actualTool == test.Expected,
			}

			metrics.tool(actualTool).SelectedCount++
			if result.Passed {
				metrics.tool(test.Expected).CorrectCount++
			} else {
				metrics.tool(test.Expected).FalseNegatives++
				metrics.tool(actualTool).FalsePositives++
			}

			metrics.record(pair.ID, result.Passed,
				fmt.Sprintf("[%s] %s: expected %s, got %s (%s)",
					pair.ID, test.Input, test.Expected, actualTool, test.Reason))
			results = append(results, result)
		}
	}

	metrics.finish()
	return metrics, results
}

// EvaluateArguments runs argument tests against a selector.
// Each tool name is reported as its own category.
func EvaluateArguments(suite *ArgumentSuite, selector ToolSelector) (*EvalMetrics, []ArgumentResult) {
	metrics := newMetrics()
	results := make([]ArgumentResult, 0, len(suite.Tests))

	for _, test := range suite.Tests {
		actualTool, actualArgs, err := selector.SelectTool(test.Input)
		result := ArgumentResult{
			TestID:    test.ID,
			Tool:      test.Tool,
			Input:     test.Input,
			Passed:    true,
			WrongArgs: make(map[string]string),
		}

		switch {
		case err != nil:
			result.Passed = false
			result.Errors = append(result.Errors, fmt.Sprintf("selector error: %v", err))
		case actualTool != test.Tool:
			result.Passed = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("wrong tool: expected %s, got %s", test.Tool, actualTool))
		default:
			checkArguments(test, actualArgs, &result)
		}

		metrics.record(test.Tool, result.Passed,
			fmt.Sprintf("[%s] %s: %s", test.ID, test.Input, strings.Join(argumentErrors(result), "; ")))
		results = append(results, result)
	}

	metrics.finish()
	return metrics, results
}

func checkArguments(test ArgumentTest, actual map[string]any, result *ArgumentResult) {
	for _, name := range test.RequiredArgs {
		if _, ok := actual[name]; !ok {
			result.Passed = false
			result.MissingArgs = append(result.MissingArgs, name)
		}
	}

	for _, key := range sortedKeys(test.ExpectedArgs) {
		expected := test.ExpectedArgs[key]
		value, ok := actual[key]
		if !ok {
			if !slices.Contains(result.MissingArgs, key) {
				result.Passed = false
				result.MissingArgs = append(result.MissingArgs, key)
			}
			continue
		}
		if !compareValues(expected, value) {
			result.Passed = false
			result.WrongArgs[key] = fmt.Sprintf("expected %v, got %v", expected, value)
		}
	}

	for _, name := range test.ForbiddenArgs {
		if _, ok := actual[name]; ok {
			result.Passed = false
			result.ForbiddenHit = append(result.ForbiddenHit, name)
		}
	}
}

func argumentErrors(r ArgumentResult) []string {
	details := append([]string(nil), r.Errors...)
	if len(r.MissingArgs) > 0 {
		details = append(details, fmt.Sprintf("missing: %v", r.MissingArgs))
	}
	for _, key := range sortedKeys(r.WrongArgs) {
		details = append(details, fmt.Sprintf("%s: %s", key, r.WrongArgs[key]))
	}
	if len(r.ForbiddenHit) > 0 {
		details = append(details, fmt.Sprintf("forbidden: %v", r.ForbiddenHit))
	}
	return details
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// compareValues compares an expected value from JSON with a selector value.
// JSON numbers decode to float64, so integer expectations match floats.
func compareValues(expected, actual any) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}

	ev := reflect.ValueOf(expected)
	av := reflect.ValueOf(actual)

	if ef, ok := toFloat(ev); ok {
		if af, ok := toFloat(av); ok {
			return ef == af
		}
		return false
	}

	if ev.Kind() == reflect.String && av.Kind() == reflect.String {
		return ev.String() == av.String()
	}

	if ev.Kind() == reflect.Slice && av.Kind() == reflect.Slice {
		if ev.Len() != av.Len() {
			return false
		}
		for i := 0; i < ev.Len(); i++ {
			if !compareValues(ev.Index(i).Interface(), av.Index(i).Interface()) {
				return false
			}
		}
		return true
	}

	return reflect.DeepEqual(expected, actual)
}

func toFloat(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}

// FormatMetrics renders metrics as a plain text report.
func FormatMetrics(metrics *EvalMetrics, suiteName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n=== %s ===\n", suiteName)
	fmt.Fprintf(&b, "Total: %d tests\n", metrics.TotalTests)
	fmt.Fprintf(&b, "Passed: %d (%.1f%%)\n", metrics.PassedTests, metrics.Accuracy*100)
	fmt.Fprintf(&b, "Failed: %d\n", metrics.FailedTests)

	if len(metrics.ByCategory) > 0 {
		b.WriteString("\nBy Category:\n")
		for _, cat := range sortedKeys(metrics.ByCategory) {
			m := metrics.ByCategory[cat]
			if m.Total > 0 {
				acc := float64(m.Passed) / float64(m.Total) * 100
				fmt.Fprintf(&b, "  %-25s: %d/%d (%.0f%%)\n", cat, m.Passed, m.Total, acc)
			}
		}
	}

	const maxDetails = 10
	switch n := len(metrics.FailedDetails); {
	case n == 0:
	case n <= maxDetails:
		b.WriteString("\nFailed Tests:\n")
		for _, detail := range metrics.FailedDetails {
			fmt.Fprintf(&b, "  - %s\n", detail)
		}
	default:
		fmt.Fprintf(&b, "\nFailed Tests (showing first %d of %d):\n", maxDetails, n)
		for _, detail := range metrics.FailedDetails[:maxDetails] {
			fmt.Fprintf(&b, "  - %s\n", detail)
		}
	}

	return b.String()
}
