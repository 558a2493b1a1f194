package main

import (
	"os"

	"github.com/goatkit/ticketq/internal/cmd"

	// Registered adapters. Importing an adapter package makes it
	// discoverable; this is the full built-in set.
	_ "github.com/goatkit/ticketq/internal/adapters/zendesk"
)

func main() {
	os.Exit(cmd.Execute())
}
