package command

// root.go defines the root command for the studymate CLI and its global flags.

import (
	"fmt"
	"os"
	"time"

	"studymate/cmd/cli/authentication"
	"studymate/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var apiURL string // Global flag for API server URL

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "studymate",
	Short: "studymate - study group coordination from the terminal",
	Long: `studymate is a command line client for the studymate API. Use it to:
- Post study topics and schedule sessions
- Join topics other people posted
- Rate sessions once they have started

Use "studymate [command] --help" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultURL := os.Getenv("STUDYMATE_API")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultURL, "API server URL")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(topicCmd)
	rootCmd.AddCommand(profileCmd)
}

// GetAuthenticatedClient returns a client carrying the stored token. The
// server the user logged in to wins unless --api was given explicitly.
func GetAuthenticatedClient(cmd *cobra.Command) (*client.HTTPClient, error) {
	creds, err := authentication.GetTokens()
	if err != nil {
		return nil, err
	}
	if creds.Expired(time.Now()) {
		return nil, fmt.Errorf("session expired, run `studymate auth login` again")
	}

	url := apiURL
	if creds.APIURL != "" && !cmd.Flags().Changed("api") {
		url = creds.APIURL
	}
	c := client.NewHTTPClient(url)
	c.SetToken(creds.AccessToken)
	return c, nil
}
