package command

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"studymate/cmd/cli/command/client"
	"studymate/internal/microservices/http-api/dto"

	"github.com/spf13/cobra"
)

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Study topic commands",
	Long:  `Post, browse, join, schedule and rate study topics.`,
}

func parseTopicID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid topic ID: %q", arg)
	}
	return id, nil
}

func printTopics(topics []dto.TopicResponse) {
	if len(topics) == 0 {
		fmt.Println("No topics found.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tOWNER\tJOINED\tRATING\tSCHEDULED")
	for _, t := range topics {
		rating := "-"
		if t.RatingsCount > 0 {
			rating = fmt.Sprintf("%.2f (%d)", t.AverageRating, t.RatingsCount)
		}
		scheduled := t.ScheduledDisplay
		if scheduled == "" {
			scheduled = "-"
		}
		joined := strconv.FormatInt(t.WillingnessCount, 10)
		if t.ViewerJoined {
			joined += " *"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.OwnerUsername, joined, rating, scheduled)
	}
	w.Flush()
}

func listCommand(use, short string, list func(*client.HTTPClient) ([]dto.TopicResponse, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := GetAuthenticatedClient(cmd)
			if err != nil {
				return err
			}
			topics, err := list(c)
			if err != nil {
				return err
			}
			printTopics(topics)
			return nil
		},
	}
}

var postTopicCmd = &cobra.Command{
	Use:   "post",
	Short: "Post a new study topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.CreateTopicRequest
		req.Title, _ = cmd.Flags().GetString("title")
		req.Description, _ = cmd.Flags().GetString("description")
		req.Duration, _ = cmd.Flags().GetString("duration")
		if category, _ := cmd.Flags().GetString("category"); category != "" {
			req.Category = &category
		}

		c, err := GetAuthenticatedClient(cmd)
		if err != nil {
			return err
		}
		topic, err := c.PostTopic(&req)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Topic %d posted: %s\n", topic.ID, topic.Title)
		return nil
	},
}

var showTopicCmd = &cobra.Command{
	Use:   "show [topic-id]",
	Short: "Show one topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, err := parseTopicID(args[0])
		if err != nil {
			return err
		}
		c, err := GetAuthenticatedClient(cmd)
		if err != nil {
			return err
		}
		t, err := c.GetTopic(topicID)
		if err != nil {
			return err
		}

		fmt.Printf("%s (#%d)\n", t.Title, t.ID)
		fmt.Printf("Owner:     %s (%s)\n", t.OwnerName, t.OwnerUsername)
		fmt.Printf("Duration:  %s\n", t.Duration)
		if t.Category != nil {
			fmt.Printf("Category:  %s\n", *t.Category)
		}
		fmt.Printf("Posted:    %s\n", t.CreatedDisplay)
		if t.ScheduledDisplay != "" {
			fmt.Printf("Scheduled: %s\n", t.ScheduledDisplay)
		}
		fmt.Printf("Joined:    %d\n", t.WillingnessCount)
		fmt.Printf("Rating:    %.2f from %d ratings\n", t.AverageRating, t.RatingsCount)
		fmt.Printf("\n%s\n", t.Description)
		return nil
	},
}

var joinTopicCmd = &cobra.Command{
	Use:   "join [topic-id]",
	Short: "Join a topic, or leave it if you already joined",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, err := parseTopicID(args[0])
		if err != nil {
			return err
		}
		c, err := GetAuthenticatedClient(cmd)
		if err != nil {
			return err
		}
		resp, err := c.ToggleWillingness(topicID)
		if err != nil {
			return err
		}
		verb := "Joined"
		if resp.Action == "removed" {
			verb = "Left"
		}
		fmt.Printf("✓ %s topic %d (%d people joined)\n", verb, topicID, resp.Count)
		return nil
	},
}

var willingTopicCmd = &cobra.Command{
	Use:   "willing [topic-id]",
	Short: "List who joined one of your topics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, err := parseTopicID(args[0])
		if err != nil {
			return err
		}
		c, err := GetAuthenticatedClient(cmd)
		if err != nil {
			return err
		}
		users, err := c.ListWillingUsers(topicID)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			fmt.Println("Nobody has joined yet.")
			return nil
		}
		for _, u := range users {
			fmt.Printf("- %s (%s), %s\n", u.Name, u.Username, u.Profession)
		}
		return nil
	},
}

var scheduleTopicCmd = &cobra.Command{
	Use:   "schedule [topic-id] [when]",
	Short: `Schedule a session, e.g. "2025-01-10T09:00"`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, err := parseTopicID(args[0])
		if err != nil {
			return err
		}
		c, err := GetAuthenticatedClient(cmd)
		if err != nil {
			return err
		}
		resp, err := c.ScheduleTopic(topicID, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("✓ Topic %d scheduled for %s\n", topicID, resp.ScheduledDisplay)
		return nil
	},
}

var rateTopicCmd = &cobra.Command{
	Use:   "rate [topic-id] [0-5]",
	Short: "Rate a topic once its session has started",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, err := parseTopicID(args[0])
		if err != nil {
			return err
		}
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid rating: %w", err)
		}
		if value < 0 || value > 5 {
			return fmt.Errorf("rating must be between 0 and 5")
		}
		feedback, _ := cmd.Flags().GetString("feedback")

		c, err := GetAuthenticatedClient(cmd)
		if err != nil {
			return err
		}
		summary, err := c.RateTopic(topicID, value, feedback)
		if err != nil {
			return err
		}
		fmt.Println("✓ Rating submitted successfully!")
		fmt.Printf("Average: %.2f from %d ratings\n", summary.Average, summary.RatingsCount)
		return nil
	},
}

var ratingsTopicCmd = &cobra.Command{
	Use:   "ratings [topic-id]",
	Short: "List ratings for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, err := parseTopicID(args[0])
		if err != nil {
			return err
		}
		c, err := GetAuthenticatedClient(cmd)
		if err != nil {
			return err
		}
		ratings, err := c.ListRatings(topicID)
		if err != nil {
			return err
		}
		if len(ratings) == 0 {
			fmt.Println("No ratings yet.")
			return nil
		}
		for _, r := range ratings {
			line := fmt.Sprintf("%.1f  %s", r.Value, r.Username)
			if r.Feedback != nil && *r.Feedback != "" {
				line += ": " + *r.Feedback
			}
			fmt.Println(line)
		}
		return nil
	},
}

var deleteTopicCmd = &cobra.Command{
	Use:   "delete [topic-id]",
	Short: "Delete one of your topics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, err := parseTopicID(args[0])
		if err != nil {
			return err
		}
		c, err := GetAuthenticatedClient(cmd)
		if err != nil {
			return err
		}
		if err := c.DeleteTopic(topicID); err != nil {
			return err
		}
		fmt.Printf("✓ Topic %d deleted\n", topicID)
		return nil
	},
}

func init() {
	topicCmd.AddCommand(
		listCommand("list", "List all topics, newest first", (*client.HTTPClient).ListTopics),
		listCommand("mine", "List topics you posted", (*client.HTTPClient).ListOwnedTopics),
		listCommand("joined", "List topics you joined", (*client.HTTPClient).ListJoinedTopics),
		postTopicCmd,
		showTopicCmd,
		joinTopicCmd,
		willingTopicCmd,
		scheduleTopicCmd,
		rateTopicCmd,
		ratingsTopicCmd,
		deleteTopicCmd,
	)

	postTopicCmd.Flags().StringP("title", "t", "", "Topic title")
	postTopicCmd.Flags().StringP("description", "d", "", "What the session covers")
	postTopicCmd.Flags().String("duration", "", `Expected length, e.g. "2 hours"`)
	postTopicCmd.Flags().StringP("category", "c", "", "Optional category")
	postTopicCmd.MarkFlagRequired("title")
	postTopicCmd.MarkFlagRequired("description")
	postTopicCmd.MarkFlagRequired("duration")

	rateTopicCmd.Flags().StringP("feedback", "f", "", "Optional written feedback")
}
