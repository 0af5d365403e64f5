package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docent-labs/docent-cli/internal/core/domain"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage conversation sessions",
	Long: `Manage the conversation log shared with the assistant: start sessions,
append messages, and inspect the recent-message window the assistant sees.`,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions, most recently active first",
	RunE:  runSessionsList,
}

var sessionsStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new session",
	RunE:  runSessionsStart,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show a session's message log",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsAppendCmd = &cobra.Command{
	Use:   "append [session-id] [content]",
	Short: "Append a message to a session",
	Args:  cobra.ExactArgs(2),
	RunE:  runSessionsAppend,
}

var sessionsWindowCmd = &cobra.Command{
	Use:   "window [session-id]",
	Short: "Show the context window for a session",
	Long: `Show the recent messages that would be passed to the language model,
sized by the configured conversation memory limit.`,
	Args: cobra.ExactArgs(1),
	RunE: runSessionsWindow,
}

var sessionsRemoveCmd = &cobra.Command{
	Use:   "remove [session-id]",
	Short: "Delete a session and its messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsRemove,
}

// Flags for the sessions subcommands.
var (
	sessionStartMeta  []string
	sessionAppendRole string
	sessionAppendSrcs []string
)

func init() {
	sessionsStartCmd.Flags().StringArrayVar(&sessionStartMeta, "meta", nil, "Metadata entry (key=value, repeatable)")
	sessionsAppendCmd.Flags().StringVarP(&sessionAppendRole, "role", "r", "user", "Message author (user or assistant)")
	sessionsAppendCmd.Flags().StringSliceVar(&sessionAppendSrcs, "source", nil, "Citation attached to the message (repeatable)")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsStartCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsAppendCmd)
	sessionsCmd.AddCommand(sessionsWindowCmd)
	sessionsCmd.AddCommand(sessionsRemoveCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	ctx := context.Background()

	sessions, err := sessionService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		cmd.Println("No stored sessions. Start one with 'docent sessions start'.")
		return nil
	}

	cmd.Println("Sessions:")
	cmd.Println()
	for _, session := range sessions {
		cmd.Printf("  %s\n", session.ID)
		cmd.Printf("    Messages: %d (%d tokens)\n", session.MessageCount(), session.TotalTokens())
		cmd.Printf("    Active:   %s\n", session.LastActivity.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d sessions\n", len(sessions))
	return nil
}

func runSessionsStart(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	ctx := context.Background()

	metadata, err := parseMetadata(sessionStartMeta)
	if err != nil {
		return err
	}

	session, err := sessionService.Start(ctx, metadata)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	cmd.Printf("Started session: %s\n", session.ID)
	return nil
}

// parseMetadata turns repeated key=value flags into a metadata map.
func parseMetadata(entries []string) (map[string]any, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	metadata := make(map[string]any, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid metadata entry %q (want key=value)", entry)
		}
		metadata[key] = value
	}
	return metadata, nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	sessionID := args[0]
	ctx := context.Background()

	session, err := sessionService.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	cmd.Printf("Session: %s\n\n", session.ID)
	cmd.Printf("  Created:  %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Active:   %s\n", session.LastActivity.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Messages: %d (%d tokens)\n", session.MessageCount(), session.TotalTokens())

	if len(session.Metadata) > 0 {
		cmd.Println("\n  Metadata:")
		for k, v := range session.Metadata {
			cmd.Printf("    %s: %v\n", k, v)
		}
	}

	if len(session.Messages) > 0 {
		cmd.Println()
		printMessages(cmd, session.Messages)
	}

	return nil
}

func runSessionsAppend(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	sessionID, content := args[0], args[1]
	ctx := context.Background()

	role := domain.Role(sessionAppendRole)
	if !role.IsUser() && !role.IsAssistant() {
		return fmt.Errorf("invalid role %q (want user or assistant)", sessionAppendRole)
	}

	var opts []domain.MessageOption
	if len(sessionAppendSrcs) > 0 {
		opts = append(opts, domain.WithMessageSources(sessionAppendSrcs))
	}

	msg, err := sessionService.AppendMessage(ctx, sessionID, role, content, opts...)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	if msg.TokenCount != nil {
		cmd.Printf("Appended %s message %s (%d tokens)\n", msg.Role, msg.ID, *msg.TokenCount)
	} else {
		cmd.Printf("Appended %s message %s\n", msg.Role, msg.ID)
	}
	return nil
}

func runSessionsWindow(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	sessionID := args[0]
	ctx := context.Background()

	window, err := sessionService.Window(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get context window: %w", err)
	}

	if len(window) == 0 {
		cmd.Printf("Session %s has no messages.\n", sessionID)
		return nil
	}

	cmd.Printf("Context window for %s (%d messages):\n\n", sessionID, len(window))
	printMessages(cmd, window)
	return nil
}

// printMessages renders a message log in original order.
func printMessages(cmd *cobra.Command, messages []domain.Message) {
	for i := range messages {
		msg := &messages[i]
		if msg.TokenCount != nil {
			cmd.Printf("  [%s] %s (%d tokens)\n", msg.Role, msg.Timestamp.Format("2006-01-02 15:04:05"), *msg.TokenCount)
		} else {
			cmd.Printf("  [%s] %s\n", msg.Role, msg.Timestamp.Format("2006-01-02 15:04:05"))
		}
		cmd.Printf("  %s\n", msg.Content)
		if len(msg.Sources) > 0 {
			cmd.Printf("  Sources: %s\n", strings.Join(msg.Sources, ", "))
		}
		cmd.Println()
	}
}

func runSessionsRemove(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	sessionID := args[0]
	ctx := context.Background()

	if err := sessionService.Remove(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	cmd.Printf("Removed session: %s\n", sessionID)
	return nil
}
