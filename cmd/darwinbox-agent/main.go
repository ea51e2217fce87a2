package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sagarbagwe/darwinbox-ai-agent/config"
	"github.com/sagarbagwe/darwinbox-ai-agent/internal/agent"
	"github.com/sagarbagwe/darwinbox-ai-agent/internal/api"
	"github.com/sagarbagwe/darwinbox-ai-agent/internal/credentials"
	"github.com/sagarbagwe/darwinbox-ai-agent/internal/darwinbox"
	"github.com/sagarbagwe/darwinbox-ai-agent/internal/llm"
)

var (
	cfg        *config.Config
	logger     zerolog.Logger
	forceLocal bool
	forceCloud bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "darwinbox-agent [question]",
		Short: "AI-powered HR assistant for Darwinbox",
		Long: `Darwinbox Agent is an AI-powered assistant over the Darwinbox HRMS
API: leave reports, employee master data, attendance rosters, and
name-based employee search, driven by natural-language questions.

LLM Provider Options:
  --local    Force the local Ollama model (requires Ollama running)
  --cloud    Force the Claude API (requires ANTHROPIC_API_KEY)
  (default)  Auto-route: simple lookups local, analytical queries cloud

Examples:
  darwinbox-agent "leaves for MMT6765 from 2024-01-01 to 2024-01-31"
  darwinbox-agent "who is Sonali Garg's manager?"
  darwinbox-agent chat
  darwinbox-agent serve --port 8080`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}

			level, _ := zerolog.ParseLevel(cfg.LogLevel)
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().
				Timestamp().
				Logger()

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runAsk(strings.Join(args, " "))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&forceLocal, "local", "l", false, "Use local Ollama model")
	rootCmd.PersistentFlags().BoolVarP(&forceCloud, "cloud", "c", false, "Use Claude API")

	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(testCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat()
		},
	}
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(strings.Join(args, " "))
		},
	}
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				cfg.ServerPort = port
			}
			return runServer()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default: 8080)")
	return cmd
}

func buildRouter() (llm.Router, error) {
	hybrid := llm.NewHybridRouter(
		cfg.OllamaURL,
		cfg.OllamaModel,
		cfg.AnthropicAPIKey,
		"",
		cfg.PreferLocal,
	)

	if hybrid.LocalAvailable() {
		logger.Info().Str("model", cfg.OllamaModel).Msg("local Ollama available")
	}
	if cfg.AnthropicAPIKey != "" {
		logger.Info().Msg("Claude API available")
	}

	switch {
	case forceLocal:
		local := hybrid.GetLocal()
		if local == nil {
			return nil, fmt.Errorf("--local requested but Ollama is not reachable at %s", cfg.OllamaURL)
		}
		return llm.ForceClient(local), nil
	case forceCloud:
		cloud := hybrid.GetCloud()
		if cloud == nil {
			return nil, fmt.Errorf("--cloud requested but ANTHROPIC_API_KEY is not set")
		}
		return llm.ForceClient(cloud), nil
	default:
		return hybrid, nil
	}
}

func createAgent() (*agent.Agent, *agent.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	router, err := buildRouter()
	if err != nil {
		return nil, nil, err
	}

	client := darwinbox.NewClient(cfg, logger)
	registry := agent.NewToolRegistry(client, logger)

	return agent.New(router, registry, logger, cfg.MaxToolTurns), registry, nil
}

func runChat() error {
	ag, _, err := createAgent()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nGoodbye!")
		cancel()
		os.Exit(0)
	}()

	fmt.Println("Darwinbox Agent - AI-Powered HR Assistant")
	fmt.Println("=========================================")
	fmt.Println("Ask me about employee leaves, profiles, attendance,")
	fmt.Println("or search for employees by name.")
	fmt.Println()
	fmt.Println("Type 'exit' or 'quit' to end the session, 'clear' to reset.")
	fmt.Println()

	var history []agent.Message
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("You: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			return nil
		}

		if input == "clear" {
			history = nil
			fmt.Println("Conversation cleared.")
			continue
		}

		fmt.Println()
		fmt.Print("Thinking...")

		response, newHistory, err := ag.Chat(ctx, input, history)
		if err != nil {
			fmt.Printf("\rError: %v\n\n", err)
			continue
		}

		history = newHistory

		fmt.Print("\r")
		fmt.Printf("Assistant: %s\n\n", response)
	}
}

func runAsk(question string) error {
	ag, _, err := createAgent()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	response, _, err := ag.Chat(ctx, question, nil)
	if err != nil {
		return err
	}

	fmt.Println(response)
	return nil
}

func runServer() error {
	ag, registry, err := createAgent()
	if err != nil {
		return err
	}

	server := api.NewServer(ag, registry, cfg.ServerPort, logger, cfg)
	return server.Start()
}

func testCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Test Darwinbox API connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest()
		},
	}
}

func runTest() error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	fmt.Println("Testing Darwinbox API connectivity...")
	fmt.Printf("  URL: %s\n", cfg.DarwinboxURL)

	client := darwinbox.NewClient(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result := client.AllEmployees(ctx)
	if result.IsFailure() {
		fmt.Printf("  FAILED (%s): %s\n", result.Kind, result.Message)
		return fmt.Errorf("connectivity test failed")
	}

	count := 0
	if c, ok := result.Request["employee_count"].(int); ok {
		count = c
	}
	fmt.Printf("  OK - roster fetch succeeded (%d employees)\n", count)
	return nil
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage credentials stored in OS keychain",
		Long: `Manage API credentials stored securely in your OS keychain.

Credentials are stored in:
  - macOS: Keychain Access
  - Windows: Credential Manager
  - Linux: Secret Service (GNOME Keyring)

Environment variables always override keychain values.`,
	}

	cmd.AddCommand(configSetupCmd())
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configClearCmd())

	return cmd
}

func configSetupCmd() *cobra.Command {
	var anthropicKey, darwinboxPassword, leaveKey, employeeKey, attendanceKey string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Configure API credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompts := []struct {
				label string
				value *string
			}{
				{"Anthropic API Key", &anthropicKey},
				{"Darwinbox Password", &darwinboxPassword},
				{"Darwinbox Leave API Key", &leaveKey},
				{"Darwinbox Employee API Key", &employeeKey},
				{"Darwinbox Attendance API Key", &attendanceKey},
			}

			for _, p := range prompts {
				if *p.value != "" {
					continue
				}
				fmt.Printf("%s (press Enter to skip): ", p.label)
				v, _ := readPassword()
				*p.value = strings.TrimSpace(v)
			}

			err := credentials.Setup(map[credentials.KeyType]string{
				credentials.KeyAnthropic:         anthropicKey,
				credentials.KeyDarwinboxPassword: darwinboxPassword,
				credentials.KeyLeaveAPI:          leaveKey,
				credentials.KeyEmployeeAPI:       employeeKey,
				credentials.KeyAttendanceAPI:     attendanceKey,
			})
			if err != nil {
				return fmt.Errorf("failed to store credentials: %w", err)
			}

			fmt.Println("\nCredentials stored securely in OS keychain.")
			fmt.Println("You can now run darwinbox-agent without setting environment variables.")
			return nil
		},
	}

	cmd.Flags().StringVar(&anthropicKey, "anthropic-key", "", "Anthropic API key")
	cmd.Flags().StringVar(&darwinboxPassword, "darwinbox-password", "", "Darwinbox basic-auth password")
	cmd.Flags().StringVar(&leaveKey, "leave-key", "", "Darwinbox leave API key")
	cmd.Flags().StringVar(&employeeKey, "employee-key", "", "Darwinbox employee master API key")
	cmd.Flags().StringVar(&attendanceKey, "attendance-key", "", "Darwinbox attendance API key")

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show configured credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			configured := credentials.ListConfigured()

			fmt.Println("Credential Status (stored in OS keychain):")
			fmt.Println("==========================================")

			status := func(ok bool) string {
				if ok {
					return "configured"
				}
				return "not set"
			}

			fmt.Printf("  Anthropic API Key:            %s\n", status(configured[credentials.KeyAnthropic]))
			fmt.Printf("  Darwinbox Password:           %s\n", status(configured[credentials.KeyDarwinboxPassword]))
			fmt.Printf("  Darwinbox Leave API Key:      %s\n", status(configured[credentials.KeyLeaveAPI]))
			fmt.Printf("  Darwinbox Employee API Key:   %s\n", status(configured[credentials.KeyEmployeeAPI]))
			fmt.Printf("  Darwinbox Attendance API Key: %s\n", status(configured[credentials.KeyAttendanceAPI]))

			fmt.Println("\nNote: Environment variables override keychain values.")
			return nil
		},
	}
}

func configClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print("Are you sure you want to clear all stored credentials? [y/N]: ")
			reader := bufio.NewReader(os.Stdin)
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))

			if response != "y" && response != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}

			if err := credentials.ClearAll(); err != nil {
				fmt.Printf("Warning: some credentials may not have been cleared: %v\n", err)
			}

			fmt.Println("All credentials cleared from keychain.")
			return nil
		},
	}
}

func readPassword() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		return string(bytes), err
	}
	reader := bufio.NewReader(os.Stdin)
	return reader.ReadString('\n')
}
