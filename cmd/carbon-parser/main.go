package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/shibukawa/carbonparser"
)

// Context represents the global context for commands
type Context struct {
	Config *carbonparser.Config
}

// CLI represents the command-line interface
var CLI struct {
	Config  string     `help:"Configuration file path" default:"carbonparser.yaml"`
	Parse   ParseCmd   `cmd:"" help:"Parse a Carbon source file"`
	Authors AuthorsCmd `cmd:"" help:"Show author information"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// AuthorsCmd represents the authors command
type AuthorsCmd struct{}

// Run executes the authors command
func (cmd *AuthorsCmd) Run(ctx *Context) error {
	fmt.Printf("Carbon Parser v%s\n", carbonparser.Version)
	fmt.Println("Author: Daniil Cherniavskyi")
	fmt.Println()
	fmt.Println("Parser for Google's Carbon programming language")
	return nil
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Printf("carbon-parser v%s\n", carbonparser.Version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("carbon-parser"),
		kong.Description("A parser for the Carbon language"),
	)

	config, err := carbonparser.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch config.Output.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}

	if err := ctx.Run(&Context{Config: config}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
