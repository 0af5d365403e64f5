package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage pipeline configuration",
	Long: `View and adjust the pipeline configuration shared with the external
scraping and embedding stages: chunking geometry, retrieval bounds,
conversation windowing and scraper pacing.

Values live in the configuration file; DOCENT_* environment variables
override stored values at read time.`,
	RunE: runSettingsList,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every setting with its effective value",
	RunE:  runSettingsList,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key [key]",
	Short: "Store an API key for an external collaborator",
	Long: `Store an API key used by the external scraper or language model.
The value is read without echo and displayed masked. Without an argument,
pick the key interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsSetKey,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the effective configuration",
	RunE:  runSettingsValidate,
}

func init() {
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsList(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	snapshot, err := settingsService.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	secretKeys := settingsService.SecretKeys()

	width := 0
	for _, setting := range snapshot {
		if len(setting.Key) > width {
			width = len(setting.Key)
		}
	}
	for _, key := range secretKeys {
		if len(key) > width {
			width = len(key)
		}
	}

	cmd.Println("Docent Settings")
	cmd.Println("===============")
	cmd.Println()

	for _, setting := range snapshot {
		cmd.Printf("  %-*s  %s\n", width, setting.Key, setting.Value)
	}

	cmd.Println()
	for _, key := range secretKeys {
		if value := settingsService.Secret(key); value != "" {
			cmd.Printf("  %-*s  %s\n", width, key, maskAPIKey(value))
		} else {
			cmd.Printf("  %-*s  (not set)\n", width, key)
		}
	}

	cmd.Println()
	cmd.Printf("Config file: %s\n", settingsService.Path())
	cmd.Printf("Data dir:    %s\n", settingsService.DataDir())

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("\nWarning: %v\n", err)
		cmd.Println("Run 'docent settings set' to fix the reported values.")
	} else {
		cmd.Println("\nConfiguration is valid.")
	}

	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]

	for _, secretKey := range settingsService.SecretKeys() {
		if key != secretKey {
			continue
		}
		if value := settingsService.Secret(key); value != "" {
			cmd.Printf("%s = %s\n", key, maskAPIKey(value))
		} else {
			cmd.Printf("%s is not set\n", key)
		}
		return nil
	}

	snapshot, err := settingsService.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	for _, setting := range snapshot {
		if setting.Key == key {
			cmd.Printf("%s = %s\n", setting.Key, setting.Value)
			return nil
		}
	}

	return fmt.Errorf("unknown setting %q", key)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s = %s\n", key, value)

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	secretKeys := settingsService.SecretKeys()

	var key string
	if len(args) > 0 {
		key = args[0]
		known := false
		for _, secretKey := range secretKeys {
			if key == secretKey {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown secret key %q (one of: %s)", key, strings.Join(secretKeys, ", "))
		}
	} else {
		cmd.Println("Select key to store")
		for i, secretKey := range secretKeys {
			cmd.Printf("  %d. %s\n", i+1, secretKey)
		}
		cmd.Print("\nEnter choice [1]: ")
		reader := bufio.NewReader(os.Stdin)
		idx := parseChoice(readLine(reader), len(secretKeys), 1)
		key = secretKeys[idx-1]
	}

	cmd.Printf("Enter value for %s: ", key)
	value := readPassword()
	cmd.Println()
	if value == "" {
		return errors.New("no value entered")
	}

	if err := settingsService.SetSecret(key, value); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}

	cmd.Printf("Stored %s (%s)\n", key, maskAPIKey(value))
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Validate(); err != nil {
		return err
	}

	cmd.Println("Configuration is valid.")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
