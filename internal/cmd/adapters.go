package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	flagAdaptersTest bool
	flagInstallGuide bool
)

var adaptersCmd = &cobra.Command{
	Use:   "adapters",
	Short: "List installed ticketing adapters",
	RunE:  runAdapters,
}

func init() {
	adaptersCmd.Flags().BoolVar(&flagAdaptersTest, "test", false, "test the connection of every configured adapter")
	adaptersCmd.Flags().BoolVar(&flagInstallGuide, "install-guide", false, "show how to install more adapters")
	rootCmd.AddCommand(adaptersCmd)
}

func runAdapters(cmd *cobra.Command, args []string) error {
	if flagInstallGuide {
		fmt.Println(`Adapters are Go packages that register themselves with the host.
Official adapters install with:

    go install github.com/goatkit/ticketq-<name>@latest

After installing, run 'tq configure --adapter <name>' to set it up.`)
		return nil
	}

	d, err := buildDeps()
	if err != nil {
		return err
	}

	names := d.registry.List()
	if len(names) == 0 {
		fmt.Println("No adapters installed. Run 'tq adapters --install-guide' to get started.")
		return nil
	}

	defaultAdapter := d.config.DefaultAdapter()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tCONFIGURED\tFEATURES")
	for _, name := range names {
		info, ok := d.registry.AdapterInfo(name)
		if !ok {
			continue
		}
		configured := "no"
		if d.config.IsConfigured(name) {
			configured = "yes"
		}
		display := info.Name
		if name == defaultAdapter {
			display += " (default)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			display, info.Version, configured, strings.Join(info.Features, ","))
	}
	w.Flush()

	if flagAdaptersTest {
		fmt.Println()
		for _, name := range names {
			if !d.config.IsConfigured(name) {
				continue
			}
			if err := testAdapter(d, name); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			}
		}
	}
	return nil
}
