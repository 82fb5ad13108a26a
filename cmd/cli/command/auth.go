package command

import (
	"fmt"
	"time"

	"studymate/cmd/cli/authentication"
	"studymate/cmd/cli/command/client"
	"studymate/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the studymate API server. Supports register, login and logout.`,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new studymate account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.RegisterRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Password, _ = cmd.Flags().GetString("password")
		req.Name, _ = cmd.Flags().GetString("name")
		req.Profession, _ = cmd.Flags().GetString("profession")

		user, err := client.NewHTTPClient(apiURL).Register(&req)
		if err != nil {
			return err
		}

		fmt.Println("✓ Registration successful! Please login to continue.")
		fmt.Printf("UserID: %d\n", user.ID)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to your studymate account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.LoginRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Password, _ = cmd.Flags().GetString("password")

		resp, err := client.NewHTTPClient(apiURL).Login(&req)
		if err != nil {
			return err
		}

		creds := &authentication.StoredCredentials{
			AccessToken: resp.AccessToken,
			Username:    resp.User.Username,
			APIURL:      apiURL,
			ExpiresAt:   time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second).Unix(),
		}
		if err := authentication.StoreTokens(creds); err != nil {
			return fmt.Errorf("logged in but could not save the token: %w", err)
		}

		fmt.Printf("✓ Logged in as %s\n", resp.User.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and revoke the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetAuthenticatedClient(cmd)
		if err == nil {
			// Revocation failing server side still clears the local token.
			if err := c.Logout(); err != nil {
				fmt.Printf("warning: server logout failed: %v\n", err)
			}
		}
		if err := authentication.DeleteTokens(); err != nil {
			return err
		}
		fmt.Println("✓ Successfully logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return err
		}
		fmt.Printf("%s @ %s (expires %s)\n", creds.Username, creds.APIURL, time.Unix(creds.ExpiresAt, 0).Format(time.DateTime))
		return nil
	},
}

func init() {
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)

	registerCmd.Flags().StringP("username", "u", "", "Username for the new account")
	registerCmd.Flags().StringP("password", "p", "", "Password for the new account")
	registerCmd.Flags().StringP("name", "n", "", "Display name")
	registerCmd.Flags().String("profession", "", "Profession shown on your profile")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("password")
	registerCmd.MarkFlagRequired("name")
	registerCmd.MarkFlagRequired("profession")

	loginCmd.Flags().StringP("username", "u", "", "Username for the account")
	loginCmd.Flags().StringP("password", "p", "", "Password for the account")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")
}
