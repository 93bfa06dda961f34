package main

import (
	"fmt"
	"strings"

	"github.com/encoded/filegallery/internal/config"
	"github.com/spf13/cobra"
)

var configGlobal bool

func init() {
	configCmd.Flags().BoolVar(&configGlobal, "global", false, "Read the global config instead of the workspace config")
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  fg config                            # Show workspace config
  fg config default-assembly           # Get specific value
  fg config default-assembly GRCh38    # Set value
  fg config colorize true              # Colour graph files by status
  fg config --global portal-url        # Read the global config

Workspace keys:
  default-assembly  Assembly selected on the graph and browser tabs
  browser           Preferred genome browser
  colorize          Colour graph files by status (true/false)
  inclusion         Show archived, revoked, deleted, and replaced files
  max-files         Default result limit of fg query (0 for none)

Global keys (read-only here, edit the config file to change):
  portal-url, api-key, api-secret, rate-limit, logged-in, admin, workspace`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configGlobal {
		return runGlobalConfig(args)
	}

	root := mustFindWorkspace()
	cfg := mustLoadConfig(root)

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			fmt.Printf("default-assembly: %s\n", cfg.DefaultAssembly)
			fmt.Printf("browser:          %s\n", cfg.Browser)
			fmt.Printf("colorize:         %t\n", cfg.Colorize)
			fmt.Printf("inclusion:        %t\n", cfg.Inclusion)
			fmt.Printf("max-files:        %d\n", cfg.MaxFiles)
		} else {
			outputJSON(cfg)
		}
		return nil
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		var value any
		switch key {
		case "default_assembly":
			value = cfg.DefaultAssembly
		case "browser":
			value = cfg.Browser
		case "colorize":
			value = cfg.Colorize
		case "inclusion":
			value = cfg.Inclusion
		case "max_files":
			value = cfg.MaxFiles
		default:
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]any{key: value})
		}
		return nil
	}

	// Two args: set value
	value := args[1]
	if err := cfg.Set(key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", args[0], value)
	} else {
		outputJSON(UpdateResponse{
			Status: "updated",
			Key:    key,
			Value:  value,
		})
	}
	return nil
}

// globalKeys lists the global config keys in display order.
var globalKeys = []string{"portal_url", "api_key", "api_secret", "rate_limit", "logged_in", "admin", "workspace"}

func runGlobalConfig(args []string) error {
	if len(args) > 1 {
		exitWithError(ExitError, "the global config is read-only here; edit %s", config.GlobalConfigPath())
	}
	gc := mustLoadGlobalConfig()

	keys := globalKeys
	if len(args) == 1 {
		keys = []string{normalizeKey(args[0])}
	}
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		v, ok := gc.GetValue(key)
		if !ok {
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
		if key == "api_secret" && v != "" {
			v = "********"
		}
		values[key] = v
	}

	if !humanOutput {
		return outputJSON(values)
	}
	if len(args) == 1 {
		fmt.Println(values[keys[0]])
		return nil
	}
	for _, key := range keys {
		fmt.Printf("%-11s %s\n", strings.ReplaceAll(key, "_", "-")+":", values[key])
	}
	return nil
}

// normalizeKey converts key formats (default-assembly, Default_Assembly) to
// the JSON key.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "-", "_")
	return key
}
