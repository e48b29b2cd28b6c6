package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
	Long:  "Commands for viewing and updating your profile",
}

var getProfileCmd = &cobra.Command{
	Use:   "get",
	Short: "Get your current profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getProfile()
	},
}

var updateProfileCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	Long: `Update one or more profile fields. Only the flags you pass are changed.

Examples:
  socialfusion profile update --bio "Producer from Milan"
  socialfusion profile update --location "Milan" --occupation "musician"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		payload := map[string]interface{}{}
		for _, field := range []string{"full-name", "bio", "website", "location", "education", "occupation"} {
			if cmd.Flags().Changed(field) {
				value, _ := cmd.Flags().GetString(field)
				key := field
				if field == "full-name" {
					key = "full_name"
				}
				payload[key] = value
			}
		}
		for _, field := range []string{"interests", "skills", "languages"} {
			if cmd.Flags().Changed(field) {
				values, _ := cmd.Flags().GetStringSlice(field)
				payload[field] = values
			}
		}
		if len(payload) == 0 {
			return fmt.Errorf("nothing to update, pass at least one flag")
		}
		return updateProfile(payload)
	},
}

func init() {
	profileCmd.AddCommand(getProfileCmd)
	profileCmd.AddCommand(updateProfileCmd)

	updateProfileCmd.Flags().String("full-name", "", "Display name")
	updateProfileCmd.Flags().String("bio", "", "Profile bio")
	updateProfileCmd.Flags().String("website", "", "Website URL")
	updateProfileCmd.Flags().String("location", "", "Location")
	updateProfileCmd.Flags().String("education", "", "Education")
	updateProfileCmd.Flags().String("occupation", "", "Occupation")
	updateProfileCmd.Flags().StringSlice("interests", nil, "Interests (comma separated)")
	updateProfileCmd.Flags().StringSlice("skills", nil, "Skills (comma separated)")
	updateProfileCmd.Flags().StringSlice("languages", nil, "Languages (comma separated)")
}

func getProfile() error {
	body, err := apiDo("GET", "/api/v1/auth/me", nil)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
		return nil
	}

	var result struct {
		User struct {
			Username       string `json:"username"`
			FullName       string `json:"full_name"`
			Bio            string `json:"bio"`
			Location       string `json:"location"`
			Occupation     string `json:"occupation"`
			FollowerCount  int    `json:"follower_count"`
			FollowingCount int    `json:"following_count"`
			PostCount      int    `json:"post_count"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	u := result.User
	fmt.Printf("@%s (%s)\n", u.Username, u.FullName)
	if u.Bio != "" {
		fmt.Printf("  %s\n", u.Bio)
	}
	if u.Location != "" {
		fmt.Printf("  Location: %s\n", u.Location)
	}
	if u.Occupation != "" {
		fmt.Printf("  Occupation: %s\n", u.Occupation)
	}
	fmt.Printf("  %d followers / %d following / %d posts\n",
		u.FollowerCount, u.FollowingCount, u.PostCount)

	return nil
}

func updateProfile(payload map[string]interface{}) error {
	body, err := apiDo("PUT", "/api/v1/users/me/profile", payload)
	if err != nil {
		return err
	}

	if output == "json" {
		fmt.Println(string(body))
	} else {
		fmt.Println("Profile updated")
	}

	return nil
}
