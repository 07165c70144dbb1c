package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/echo-lang/echo/compiler"
)

var tokensJSON bool

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Dump the token stream of an ECHO source file",
	Long: `Dump every token the scanner produces, comments included. The
analyzer drops comment tokens itself; collaborators that highlight or
display source want them.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	tokensCmd.Flags().BoolVar(&tokensJSON, "json", false, "emit tokens as JSON")
}

func runTokens(cmd *cobra.Command, args []string) error {
	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", args[0], err)
	}

	tokens := compiler.Tokenize(string(source))

	if tokensJSON {
		type tokenOut struct {
			Kind   string `json:"kind"`
			Lexeme string `json:"lexeme"`
			Line   int    `json:"line"`
			Column int    `json:"column"`
		}
		out := make([]tokenOut, len(tokens))
		for i, t := range tokens {
			out[i] = tokenOut{Kind: t.Type.String(), Lexeme: t.Lexeme, Line: t.Line, Column: t.Column}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, t := range tokens {
		fmt.Printf("%4d:%-3d %-16s %q\n", t.Line, t.Column, t.Type, t.Lexeme)
	}
	return nil
}
