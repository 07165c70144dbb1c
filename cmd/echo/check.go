package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/echo-lang/echo/compiler"
	"github.com/echo-lang/echo/compiler/errors"
	"github.com/echo-lang/echo/internal/cli/config"
	"github.com/echo-lang/echo/internal/cli/ui"
)

var (
	checkJSON    bool
	checkNoColor bool
	checkDebug   bool
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Analyze ECHO source files and report diagnostics",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "emit diagnostics as JSON")
	checkCmd.Flags().BoolVar(&checkNoColor, "no-color", false, "disable colored output")
	checkCmd.Flags().BoolVar(&checkDebug, "debug", false, "log analysis phase timings")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if checkDebug {
		devLogger, err := zap.NewDevelopment()
		if err == nil {
			logger = devLogger
		}
	}
	defer logger.Sync()

	jsonOut := checkJSON || cfg.Output.Format == "json"
	noColor := checkNoColor || !cfg.Output.Color

	failed := false
	for _, file := range args {
		source, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", file, err)
		}

		scanStart := time.Now()
		tokens := compiler.Tokenize(string(source))
		scanTime := time.Since(scanStart)

		parseStart := time.Now()
		result := compiler.Analyze(tokens)
		parseTime := time.Since(parseStart)

		logger.Debug("analysis complete",
			zap.String("file", file),
			zap.Int("tokens", len(tokens)),
			zap.Int("errors", len(result.Errors)),
			zap.Int("warnings", len(result.Warnings)),
			zap.Duration("scan", scanTime),
			zap.Duration("parse", parseTime),
		)

		if jsonOut {
			if err := printJSON(file, result); err != nil {
				return err
			}
		} else {
			printText(file, string(source), result, noColor, cfg.Check.MaxErrors)
		}

		if !result.Success {
			failed = true
		}
		if cfg.Check.WarningsAsErrors && len(result.Warnings) > 0 {
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
	return nil
}

func printText(file, source string, result *compiler.Result, noColor bool, maxShown int) {
	diags := append([]errors.Diagnostic{}, result.Errors...)
	diags = append(diags, result.Warnings...)

	out := ui.RenderDiagnostics(diags, ui.RenderOptions{
		SourceLines: strings.Split(source, "\n"),
		File:        file,
		NoColor:     noColor,
		MaxShown:    maxShown,
	})
	fmt.Print(out)
	fmt.Print(ui.RenderSummary(len(result.Errors), len(result.Warnings), noColor))
}

func printJSON(file string, result *compiler.Result) error {
	diags := append([]errors.Diagnostic{}, result.Errors...)
	diags = append(diags, result.Warnings...)

	payload := errors.ToJSON(diags)
	payload["file"] = file
	payload["success"] = result.Success
	payload["ast_valid"] = result.ASTValid

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
