package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	updatesCmd := &cobra.Command{Use: "updates", Short: "Status update operations"}

	// create
	var body, mood string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a status update",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPost(fmt.Sprintf("%s/api/updates", apiFlag),
				map[string]string{"body": body, "mood": mood})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	createCmd.Flags().StringVarP(&body, "body", "b", "", "Update body (required)")
	createCmd.Flags().StringVarP(&mood, "mood", "m", "", "Mood value (required)")
	_ = createCmd.MarkFlagRequired("body")
	_ = createCmd.MarkFlagRequired("mood")
	updatesCmd.AddCommand(createCmd)

	// list
	var query, sinceFlag, moodFilter string
	var page, pageSize int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List status updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if page > 0 {
				q.Set("page", fmt.Sprint(page))
			}
			if pageSize > 0 {
				q.Set("page_size", fmt.Sprint(pageSize))
			}
			if query != "" {
				q.Set("q", query)
			}
			if sinceFlag != "" {
				q.Set("since", sinceFlag)
			}
			if moodFilter != "" {
				q.Set("mood", moodFilter)
			}
			data, err := doGet(fmt.Sprintf("%s/api/updates?%s", apiFlag, q.Encode()))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	listCmd.Flags().IntVarP(&page, "page", "p", 0, "Page number")
	listCmd.Flags().IntVarP(&pageSize, "page-size", "s", 0, "Page size")
	listCmd.Flags().StringVarP(&query, "query", "q", "", "Free-text filter")
	listCmd.Flags().StringVar(&sinceFlag, "since", "", "Created at or after (RFC 3339)")
	listCmd.Flags().StringVar(&moodFilter, "mood", "", "Mood equality filter")
	updatesCmd.AddCommand(listCmd)

	// get
	getCmd := &cobra.Command{
		Use:   "get UPDATE_ID",
		Short: "Get a status update by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/updates/%s", apiFlag, args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	updatesCmd.AddCommand(getCmd)

	// mood
	var newMood string
	moodCmd := &cobra.Command{
		Use:   "mood UPDATE_ID",
		Short: "Change an update's mood (records a transition)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPatch(fmt.Sprintf("%s/api/updates/%s", apiFlag, args[0]),
				map[string]string{"mood": newMood})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	moodCmd.Flags().StringVarP(&newMood, "to", "t", "", "New mood value (required)")
	_ = moodCmd.MarkFlagRequired("to")
	updatesCmd.AddCommand(moodCmd)

	// like
	likeCmd := &cobra.Command{
		Use:   "like UPDATE_ID",
		Short: "Like a status update",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPost(fmt.Sprintf("%s/api/updates/%s/likes", apiFlag, args[0]), nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	updatesCmd.AddCommand(likeCmd)

	// timeline
	var order string
	timelineCmd := &cobra.Command{
		Use:   "timeline UPDATE_ID",
		Short: "Show an update's mood transition timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := fmt.Sprintf("%s/api/updates/%s/transitions", apiFlag, args[0])
			if order != "" {
				u += "?order=" + url.QueryEscape(order)
			}
			data, err := doGet(u)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	timelineCmd.Flags().StringVarP(&order, "order", "o", "", "chronological or reverse_chronological")
	updatesCmd.AddCommand(timelineCmd)

	// delete
	deleteCmd := &cobra.Command{
		Use:   "delete UPDATE_ID",
		Short: "Delete a status update and everything hanging off it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := doDelete(fmt.Sprintf("%s/api/updates/%s", apiFlag, args[0])); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "deleted")
			return nil
		},
	}
	updatesCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(updatesCmd)
}
