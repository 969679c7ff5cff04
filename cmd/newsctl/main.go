package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/juristmind/newsroom/pkg/news/client"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "newsctl",
		Short: "Manage news items on a newsroom server",
		Long: `newsctl talks to the /news endpoint of a newsroom server.

Reads are anonymous and only see published items. create, update and delete
need a session token, passed with --token or NEWSCTL_TOKEN.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("server", getEnv("NEWSCTL_SERVER", "http://localhost:8080"), "server base URL (env NEWSCTL_SERVER)")
	rootCmd.PersistentFlags().String("token", os.Getenv("NEWSCTL_TOKEN"), "bearer token for write commands (env NEWSCTL_TOKEN)")
	rootCmd.PersistentFlags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewGetCommand())
	rootCmd.AddCommand(NewCreateCommand())
	rootCmd.AddCommand(NewUpdateCommand())
	rootCmd.AddCommand(NewDeleteCommand())
	rootCmd.AddCommand(NewWatchCommand())

	return rootCmd
}

// NewClientFromFlags creates a client from the persistent flags
func NewClientFromFlags(cmd *cobra.Command) (*client.Client, error) {
	server, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")

	return client.New(server, client.WithTokenSource(client.StaticToken(token)))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
