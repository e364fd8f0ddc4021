package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/erraggy/json2ts/internal/mcpserver"
)

// HandleMCP runs the MCP server on stdin/stdout until the client
// disconnects or the process is interrupted.
func HandleMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		Writef(fs.Output(), "Usage: json2ts mcp\n\n")
		Writef(fs.Output(), "Serve the compile and validate tools over the Model Context Protocol (stdio).\n\n")
		Writef(fs.Output(), "Environment:\n")
		Writef(fs.Output(), "  JSON2TS_UNKNOWN_ANY             default for unknownAny (true)\n")
		Writef(fs.Output(), "  JSON2TS_ADDITIONAL_PROPERTIES   default for additionalProperties (true)\n")
		Writef(fs.Output(), "  JSON2TS_MAX_ITEMS               default for maxItems (20)\n")
		Writef(fs.Output(), "  JSON2TS_BANNER_COMMENT          default banner comment\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}
