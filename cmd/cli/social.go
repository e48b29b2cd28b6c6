package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var followCmd = &cobra.Command{
	Use:   "follow <user-id>",
	Short: "Follow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := apiDo("POST", "/api/v1/users/"+args[0]+"/follow", nil)
		if err != nil {
			return err
		}
		if output == "json" {
			fmt.Println(string(body))
		} else {
			fmt.Println("Following")
		}
		return nil
	},
}

var unfollowCmd = &cobra.Command{
	Use:   "unfollow <user-id>",
	Short: "Unfollow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := apiDo("POST", "/api/v1/users/"+args[0]+"/unfollow", nil)
		if err != nil {
			return err
		}
		if output == "json" {
			fmt.Println(string(body))
		} else {
			fmt.Println("Unfollowed")
		}
		return nil
	},
}

var suggestedCmd = &cobra.Command{
	Use:   "suggested",
	Short: "Show suggested users to follow",
	Long: `Show users ranked by profile affinity with yours.

Examples:
  socialfusion suggested
  socialfusion suggested --limit 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return showSuggested(limit)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for users by username or name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return searchUsers(args[0], limit)
	},
}

func init() {
	suggestedCmd.Flags().IntP("limit", "l", 5, "Maximum number of suggestions")
	searchCmd.Flags().IntP("limit", "l", 20, "Maximum number of results")
}

type userSummary struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	Location      string `json:"location"`
	FollowerCount int    `json:"follower_count"`
	Score         int    `json:"score"`
}

func showSuggested(limit int) error {
	body, err := apiDo("GET", "/api/v1/users/suggested?limit="+strconv.Itoa(limit), nil)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	var result struct {
		Users []userSummary `json:"users"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result.Users) == 0 {
		fmt.Println("No suggestions right now")
		return nil
	}

	for _, u := range result.Users {
		fmt.Printf("@%-20s %-24s score=%d followers=%d\n",
			u.Username, u.FullName, u.Score, u.FollowerCount)
	}

	return nil
}

func searchUsers(query string, limit int) error {
	path := "/api/v1/users/search?q=" + url.QueryEscape(query) + "&limit=" + strconv.Itoa(limit)
	body, err := apiDo("GET", path, nil)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	var result struct {
		Users []userSummary `json:"users"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result.Users) == 0 {
		fmt.Println("No users found")
		return nil
	}

	for _, u := range result.Users {
		line := fmt.Sprintf("@%-20s %s", u.Username, u.FullName)
		if u.Location != "" {
			line += " (" + u.Location + ")"
		}
		fmt.Println(line)
	}

	return nil
}
