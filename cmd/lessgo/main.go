// Command lessgo reads a Less source file and prints its parsed AST
// as indented JSON. It is a thin demonstration wrapper around the
// parser package: no lowering, no evaluation, no @import resolution.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/titpetric/lessfront/ast"
	"github.com/titpetric/lessfront/parser"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "lessgo:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: lessgo <file.less>")
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	var opts []parser.Option
	if os.Getenv("LESSGO_DEBUG") != "" {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, parser.WithDebugLog(logger))
	}

	sheet, err := parser.New(string(source), opts...).Parse()
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(ast.Tree(sheet))
}
