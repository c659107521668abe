package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/shibukawa/carbonparser/parser"
)

// ParseCmd represents the parse command
type ParseCmd struct {
	File    string `arg:"" help:"Carbon source file" type:"existingfile"`
	Rule    string `help:"Grammar rule to match against" enum:"program,function,var,expression,type" default:"program"`
	Verbose bool   `help:"Print the parse tree" short:"v"`
}

var entryRules = map[string]parser.Rule{
	"program":    parser.Program,
	"function":   parser.FunctionDecl,
	"var":        parser.VarDecl,
	"expression": parser.Expression,
	"type":       parser.TypeName,
}

// Run executes the parse command
func (cmd *ParseCmd) Run(ctx *Context) error {
	content, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to read file %q: %w", cmd.File, err)
	}

	src := string(content)

	fmt.Printf("Parsing file: %s\n", cmd.File)
	fmt.Printf("Size: %d bytes\n\n", len(src))

	node, err := parser.Parse(entryRules[cmd.Rule], src, parser.Options{
		MaxDepth: ctx.Config.Parser.MaxDepth,
	})
	if err != nil {
		printDiagnostic(os.Stderr, cmd.File, src, err)
		return err
	}

	color.Green("Parsing successful")

	if cmd.Verbose || ctx.Config.Output.Verbose {
		fmt.Println("\nParse tree:")
		fmt.Println(strings.Repeat("=", 60))
		node.Dump(os.Stdout)
	}

	return nil
}

// printDiagnostic renders a caret-style diagnostic for a ParseError,
// pointing at the offending line and column.
func printDiagnostic(w io.Writer, file, src string, err error) {
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		fmt.Fprintln(w, err)
		return
	}

	red := color.New(color.FgRed)
	fmt.Fprintf(w, "%s: %v\n", red.Sprint("error"), perr)
	fmt.Fprintf(w, " --> %s:%d:%d\n", file, perr.Pos.Line, perr.Pos.Column)

	lines := strings.Split(src, "\n")
	if perr.Pos.Line < 1 || perr.Pos.Line > len(lines) {
		return
	}

	srcLine := lines[perr.Pos.Line-1]
	prefix := fmt.Sprintf("%d | ", perr.Pos.Line)
	gutter := strings.Repeat(" ", len(prefix)-2)

	fmt.Fprintf(w, "%s|\n", gutter)
	fmt.Fprintf(w, "%s%s\n", prefix, srcLine)
	fmt.Fprintf(w, "%s| %s%s\n", gutter, strings.Repeat(" ", perr.Pos.Column-1), red.Sprint("^---"))
}
