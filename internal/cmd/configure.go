package cmd

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goatkit/ticketq/pkg/adapter"
	"github.com/goatkit/ticketq/pkg/models"
	"github.com/goatkit/ticketq/pkg/ticketq"
)

var (
	flagConfigureTest bool
	flagSetDefault    string
	flagRemove        bool
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Set up or update an adapter configuration",
	Long: `Configure prompts for each field in the adapter's config schema and
stores the result under the config directory. API tokens go to the
credential store, never to the plain-text config file.`,
	RunE: runConfigure,
}

func init() {
	configureCmd.Flags().BoolVar(&flagConfigureTest, "test", false, "test the connection after configuring")
	configureCmd.Flags().StringVar(&flagSetDefault, "default", "", "set the default adapter and exit")
	configureCmd.Flags().BoolVar(&flagRemove, "remove", false, "remove the adapter's configuration")
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}

	if flagSetDefault != "" {
		if !d.registry.IsAvailable(flagSetDefault) {
			return models.NewPluginError(flagSetDefault,
				fmt.Sprintf("adapter %q is not installed", flagSetDefault), nil,
				"Run 'tq adapters' to list installed adapters")
		}
		if err := d.config.SetDefaultAdapter(flagSetDefault); err != nil {
			return err
		}
		fmt.Printf("Default adapter set to %s\n", flagSetDefault)
		return nil
	}

	name := flagAdapter
	if name == "" {
		available := d.registry.List()
		if len(available) == 1 {
			name = available[0]
		} else {
			return models.NewConfigurationError(
				"no adapter selected", nil,
				fmt.Sprintf("Pass --adapter <name>; installed: %s", strings.Join(available, ", ")))
		}
	}

	if flagRemove {
		if err := d.config.DeleteAdapterConfig(name); err != nil {
			return err
		}
		fmt.Printf("Removed configuration for %s\n", name)
		return nil
	}

	ctor, ok := d.registry.Get(name)
	if !ok {
		return models.NewPluginError(name,
			fmt.Sprintf("adapter %q is not installed", name), nil,
			fmt.Sprintf("Install it with: go install github.com/goatkit/ticketq-%s@latest", name))
	}
	a := ctor()

	cfg, err := promptConfig(a, os.Stdin)
	if err != nil {
		return err
	}
	if !a.ValidateConfig(cfg) {
		return models.NewConfigurationError(
			fmt.Sprintf("the entered configuration for %q is not valid", name), nil,
			"Check required fields against the adapter's config schema",
			"Run 'tq configure' again")
	}
	if err := d.config.SaveAdapterConfig(name, cfg); err != nil {
		return err
	}
	fmt.Printf("Saved configuration for %s\n", name)

	if flagConfigureTest {
		return testAdapter(d, name)
	}
	return nil
}

// promptConfig walks the adapter's config schema and prompts for each
// property, offering the default-config value as the fallback.
func promptConfig(a adapter.Adapter, in *os.File) (adapter.Config, error) {
	schema := a.ConfigSchema()
	props, _ := schema["properties"].(map[string]any)
	defaults := a.DefaultConfig()

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	reader := bufio.NewReader(in)
	cfg := adapter.Config{}
	for _, name := range names {
		prop, _ := props[name].(map[string]any)
		description, _ := prop["description"].(string)
		if description == "" {
			description = name
		}
		placeholder, _ := defaults[name].(string)

		fmt.Printf("%s [%s]: ", description, placeholder)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return nil, models.NewConfigurationError("configuration input aborted", err)
		}
		value := strings.TrimSpace(line)
		if value == "" {
			value = placeholder
		}
		cfg[name] = value
	}
	return cfg, nil
}

func testAdapter(d *deps, name string) error {
	inst, err := d.factory.CreateAdapter(name, nil)
	if err != nil {
		return err
	}
	lib := ticketq.New(inst, ticketq.WithLogger(d.logger))
	ok, err := lib.TestConnection()
	if err != nil {
		return err
	}
	if !ok {
		return models.NewAuthenticationError(name, "connection test failed", nil)
	}
	fmt.Printf("Connection to %s OK\n", name)
	return nil
}
