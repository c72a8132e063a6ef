package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/TracecatHQ/caseboard/internal/client"
	"github.com/TracecatHQ/caseboard/internal/ui"
)

var (
	serverURL   string
	authToken   string
	workspaceID string
	jsonOutput  bool

	caseClient client.CaseClient
)

func defaultServerURL() string {
	if s := os.Getenv("CASEBOARD_HTTP_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultAuthToken() string {
	if t := os.Getenv("CASEBOARD_AUTH_TOKEN"); t != "" {
		return t
	}
	return activeRemoteToken()
}

func defaultWorkspace() string {
	if w := os.Getenv("CASEBOARD_WORKSPACE"); w != "" {
		return w
	}
	return activeRemoteWorkspace()
}

var rootCmd = &cobra.Command{
	Use:   "casectl",
	Short: "CLI client for the caseboard service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		caseClient = client.NewHTTPClient(serverURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if caseClient != nil {
			caseClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", defaultServerURL(), "caseboard server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultAuthToken(), "bearer token for authentication")
	rootCmd.PersistentFlags().StringVarP(&workspaceID, "workspace", "w", defaultWorkspace(), "workspace ID")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(closeCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
