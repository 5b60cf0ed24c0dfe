package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// OutputConfig holds global output settings.
type OutputConfig struct {
	JSON  bool
	Quiet bool
}

var outputCfg OutputConfig

// parseGlobalFlags extracts --json and --quiet from args and returns the rest.
func parseGlobalFlags(args []string) []string {
	var remaining []string
	for _, arg := range args {
		switch arg {
		case "--json":
			outputCfg.JSON = true
		case "--quiet", "-q":
			outputCfg.Quiet = true
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining
}

func printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

// PrintResult outputs data as JSON, or as plain lines for simple values.
func PrintResult(data any) {
	if outputCfg.JSON {
		printJSON(data)
		return
	}

	switch v := data.(type) {
	case string:
		fmt.Println(v)
	case []string:
		for _, s := range v {
			fmt.Println(s)
		}
	default:
		printJSON(data)
	}
}

// PrintTable outputs rows under headers, or a list of objects in JSON mode.
func PrintTable(headers []string, rows [][]string) {
	if outputCfg.JSON {
		result := make([]map[string]string, len(rows))
		for i, row := range rows {
			m := make(map[string]string, len(headers))
			for j, h := range headers {
				if j < len(row) {
					m[h] = row[j]
				}
			}
			result[i] = m
		}
		printJSON(result)
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, h := range headers {
		fmt.Printf("%-*s  ", widths[i], h)
	}
	fmt.Println()
	for i := range headers {
		fmt.Print(strings.Repeat("-", widths[i]), "  ")
	}
	fmt.Println()
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				fmt.Printf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Println()
	}
}

// PrintInfo prints an informational message unless quiet.
func PrintInfo(format string, args ...any) {
	if !outputCfg.Quiet && !outputCfg.JSON {
		fmt.Printf(format, args...)
	}
}

// PrintError prints to stderr.
func PrintError(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
}
