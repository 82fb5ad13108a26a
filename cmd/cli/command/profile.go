package command

import (
	"fmt"

	"studymate/cmd/cli/authentication"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile [username]",
	Short: "Show a profile, yours when no username is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetAuthenticatedClient(cmd)
		if err != nil {
			return err
		}
		username := ""
		if len(args) == 1 {
			username = args[0]
		} else {
			creds, err := authentication.GetTokens()
			if err != nil {
				return err
			}
			username = creds.Username
		}

		p, err := c.GetProfile(username)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s), %s\n", p.User.Name, p.User.Username, p.User.Profession)
		fmt.Printf("Topics created: %d\n", p.Stats.TopicsCreated)
		fmt.Printf("Topics joined:  %d\n", p.Stats.TopicsJoined)
		fmt.Printf("Average rating: %.2f from %d ratings\n", p.Stats.AverageRating, p.Stats.TotalRatings)
		if len(p.Activities) > 0 {
			fmt.Println("\nRecent activity:")
			for _, a := range p.Activities {
				fmt.Printf("  %s  %-7s %s\n", a.AtDisplay, a.Kind, a.Title)
			}
		}
		return nil
	},
}
