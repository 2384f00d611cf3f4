package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sdmap/apiids"
	"github.com/sdmap/apiids/cmd/apiids/commands"
)

// commandNames lists the subcommands for suggestions.
var commandNames = []string{"run", "lookup", "table", "mcp", "version", "help"}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:]))
}

// run dispatches args to a subcommand and returns the exit code.
func run(ctx context.Context, args []string) int {
	// Without a subcommand (or with only flags) apiids normalizes the
	// fixtures in the current directory.
	if len(args) == 0 || (len(args[0]) > 1 && args[0][0] == '-' && !isGlobalFlag(args[0])) {
		return exitCode(commands.HandleRun(ctx, args))
	}

	command := args[0]
	rest := args[1:]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("apiids v%s\n", apiids.Version())
		fmt.Printf("commit: %s\n", apiids.Commit())
		fmt.Printf("built: %s\n", apiids.BuildTime())
		fmt.Printf("go: %s\n", apiids.GoVersion())
		return 0
	case "help", "-h", "--help":
		printUsage()
		return 0
	case "run":
		return exitCode(commands.HandleRun(ctx, rest))
	case "lookup":
		return exitCode(commands.HandleLookup(rest))
	case "table":
		return exitCode(commands.HandleTable(rest))
	case "mcp":
		return exitCode(commands.HandleMCP(ctx, rest))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		return 1
	}
}

func isGlobalFlag(arg string) bool {
	switch arg {
	case "-h", "--help", "-v", "--version":
		return true
	}
	return false
}

// exitCode prints err and maps it to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	// Lookup misses are already visible in the command output.
	if !errors.Is(err, commands.ErrNoMatch) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return 1
}

// suggestCommand returns the closest known command to input within an
// edit distance of 2, or "" when nothing is close enough.
func suggestCommand(input string) string {
	best := ""
	bestDist := 3
	for _, name := range commandNames {
		if d := levenshtein(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Print(`apiids - replace fixture endpoints with API IDs

Usage:
  apiids [flags]              Normalize the fixtures in the current directory
  apiids <command> [flags] [arguments]

Commands:
  run        Normalize ACRNN/ACRNN.json fixtures in place
  lookup     Show the API ID for one or more endpoints
  table      List the pattern table
  mcp        Serve the lookup and normalize tools over MCP (stdio)
  version    Show version information
  help       Show this help message

Examples:
  apiids
  apiids run -dir fixtures -dry-run
  apiids lookup /citizen-details/:nino/designatory-details
  apiids table -format yaml

Run 'apiids <command> --help' for more information on a command.
`)
}
