// ABOUTME: Interactive chat and one-shot say commands
// ABOUTME: Both route text through the assistant and persist each turn
package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk with Nova interactively",
		Long: `Start an interactive conversation with Nova.

Each line you type is one message. Type "exit" or "quit" (or press
Ctrl-D) to leave. Say "go offline" to stop web lookups for the session.

Examples:
  nova chat
  nova chat --quiet`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	nova, err := openApp(cmd, "cli")
	if err != nil {
		return err
	}
	defer func() { _ = nova.Close() }()

	out := cmd.OutOrStdout()
	if !quiet {
		_, _ = fmt.Fprintln(out, `Nova is listening. Type "exit" to quit.`)
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		if !quiet {
			_, _ = fmt.Fprint(out, "you> ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			break
		}

		reply, err := nova.Assistant.Handle(cmd.Context(), line)
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			continue
		}
		if jsonOutput() {
			if err := writeJSON(out, reply); err != nil {
				return err
			}
			continue
		}
		printReply(out, "nova> ", reply)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// NewSayCmd creates the say command
func NewSayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "say <message>",
		Short: "Send one message and print the reply",
		Long: `Send a single message to Nova and print its reply.

Examples:
  nova say "my sister's birthday is June 2"
  nova say "what's my sister's birthday"
  nova say --format json "hi"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSay,
	}
}

func runSay(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return errors.New("message cannot be empty")
	}

	nova, err := openApp(cmd, "cli")
	if err != nil {
		return err
	}
	defer func() { _ = nova.Close() }()

	reply, err := nova.Assistant.Handle(cmd.Context(), text)
	if err != nil {
		return fmt.Errorf("failed to handle message: %w", err)
	}

	if jsonOutput() {
		return writeJSON(cmd.OutOrStdout(), reply)
	}
	printReply(cmd.OutOrStdout(), "", reply)
	return nil
}

