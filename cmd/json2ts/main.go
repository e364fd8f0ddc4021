package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/erraggy/json2ts"
	"github.com/erraggy/json2ts/cmd/json2ts/commands"
)

var commandNames = []string{"compile", "validate", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("json2ts v%s\n", json2ts.Version())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "compile":
		err = commands.HandleCompile(os.Args[2:])
	case "validate":
		err = commands.HandleValidate(os.Args[2:])
	case "mcp":
		err = commands.HandleMCP(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		if !errors.Is(err, commands.ErrInvalidSchema) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// suggestCommand returns the known command closest to input, or "" when
// none is within two edits.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func printUsage() {
	fmt.Println(`json2ts - JSON Schema to TypeScript compiler

Usage:
  json2ts <command> [options]

Commands:
  compile     Compile a JSON Schema file into TypeScript declarations
  validate    Check a JSON Schema file against the compiler's rules
  mcp         Serve compile and validate over the Model Context Protocol
  version     Show version information
  help        Show this help message

Examples:
  json2ts compile person.json
  json2ts compile -o person.d.ts person.yaml
  json2ts validate --format json schema.json
  cat schema.json | json2ts compile --name Config -

Run 'json2ts <command> --help' for more information on a command.`)
}
