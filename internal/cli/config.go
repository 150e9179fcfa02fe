package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marcpiechura/ralph-wiggum/internal/config"
	"github.com/marcpiechura/ralph-wiggum/internal/workspace"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "View or modify configuration",
	Long: `View or modify Ralph configuration.

Examples:
  ralph config                        Show all config
  ralph config max_iterations         Get a specific value
  ralph config agent.binary /opt/amp  Set a value`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := cfgFile
		if configPath == "" {
			dir := projectDir
			if dir == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				if dir, err = workspace.Find(cwd); err != nil {
					return err
				}
			}
			configPath = config.Path(dir)
		}

		switch len(args) {
		case 0:
			return showConfig(cmd, configPath)
		case 1:
			return getConfigValue(cmd, configPath, args[0])
		case 2:
			return setConfigValue(cmd, configPath, args[0], args[1])
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func showConfig(cmd *cobra.Command, configPath string) error {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(content))
	return nil
}

func readConfigFile(configPath string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return v, nil
}

func getConfigValue(cmd *cobra.Command, configPath, key string) error {
	v, err := readConfigFile(configPath)
	if err != nil {
		return err
	}

	value := v.Get(key)
	if value == nil {
		return fmt.Errorf("key not found: %s", key)
	}

	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func setConfigValue(cmd *cobra.Command, configPath, key, value string) error {
	v, err := readConfigFile(configPath)
	if err != nil {
		return err
	}

	v.Set(key, parseConfigValue(value))

	// Reject values the loader would refuse before they reach disk.
	if _, err := config.Decode(v); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
	return nil
}

// parseConfigValue keeps numbers and booleans typed in the written YAML.
func parseConfigValue(value string) any {
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return value
}
