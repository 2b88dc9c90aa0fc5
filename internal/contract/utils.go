package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/listinglab/asoscan/core/formula"
	"github.com/listinglab/asoscan/schema"
)

// Color variables for console output, keyed by registry color tags.
var bandColors = map[string]*color.Color{
	"green":  color.New(color.FgGreen, color.Bold),
	"cyan":   color.New(color.FgCyan),
	"yellow": color.New(color.FgYellow),
	"red":    color.New(color.FgRed, color.Bold),
}

// GetPlainLabel returns the band label for a score against a registry
// band table. This is the core logic used for CSV, JSON and table
// printing.
func GetPlainLabel(score float64, bands []schema.ScoreBand) string {
	label, _ := formula.Interpretation(score, bands)
	return label
}

// GetColorLabel returns a colored band label for console output. It
// uses the band's color tag to pick the console color.
func GetColorLabel(score float64, bands []schema.ScoreBand) string {
	label, tag := formula.Interpretation(score, bands)
	if c, ok := bandColors[tag]; ok {
		return c.Sprint(label)
	}
	return label
}

// SelectOutputFile returns the appropriate file handle for output,
// based on the provided file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ParseBoolString parses yes/no style flag values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "on", "1", "":
		return true, nil
	case "no", "false", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected yes/no, got %q", s)
	}
}

// TruncateText truncates text to a maximum width with an ellipsis prefix.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if maxWidth > 3 && len(runes) > maxWidth {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return text
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "❌ %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  %s: %v\n", msg, err)
		return
	}
	fmt.Fprintf(os.Stderr, "⚠️  %s\n", msg)
}
