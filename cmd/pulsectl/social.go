package main

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	commentsCmd := &cobra.Command{Use: "comments", Short: "Comment operations"}

	var author, body string
	addCmd := &cobra.Command{
		Use:   "add UPDATE_ID",
		Short: "Comment on a status update",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPost(fmt.Sprintf("%s/api/updates/%s/comments", apiFlag, args[0]),
				map[string]string{"author": author, "body": body})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	addCmd.Flags().StringVarP(&author, "author", "u", "", "Comment author (required)")
	addCmd.Flags().StringVarP(&body, "body", "b", "", "Comment body (required)")
	_ = addCmd.MarkFlagRequired("author")
	_ = addCmd.MarkFlagRequired("body")
	commentsCmd.AddCommand(addCmd)

	listCmd := &cobra.Command{
		Use:   "list UPDATE_ID",
		Short: "List comments on a status update",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/updates/%s/comments", apiFlag, args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	commentsCmd.AddCommand(listCmd)

	rootCmd.AddCommand(commentsCmd)

	reactionsCmd := &cobra.Command{Use: "reactions", Short: "Reaction operations"}

	var kind, actor string
	toggleCmd := &cobra.Command{
		Use:   "toggle UPDATE_ID",
		Short: "Toggle a reaction on a status update",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPost(fmt.Sprintf("%s/api/updates/%s/reactions", apiFlag, args[0]),
				map[string]string{"kind": kind, "actor": actor})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	toggleCmd.Flags().StringVarP(&kind, "kind", "k", "", "Reaction kind (required)")
	toggleCmd.Flags().StringVarP(&actor, "actor", "u", "", "Acting user (required)")
	_ = toggleCmd.MarkFlagRequired("kind")
	_ = toggleCmd.MarkFlagRequired("actor")
	reactionsCmd.AddCommand(toggleCmd)

	countsCmd := &cobra.Command{
		Use:   "counts UPDATE_ID",
		Short: "Show grouped reaction counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/updates/%s/reactions", apiFlag, args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	reactionsCmd.AddCommand(countsCmd)

	removeCmd := &cobra.Command{
		Use:   "remove UPDATE_ID",
		Short: "Remove a reaction explicitly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("kind", kind)
			q.Set("actor", actor)
			if _, err := doDelete(fmt.Sprintf("%s/api/updates/%s/reactions?%s", apiFlag, args[0], q.Encode())); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "removed")
			return nil
		},
	}
	removeCmd.Flags().StringVarP(&kind, "kind", "k", "", "Reaction kind (required)")
	removeCmd.Flags().StringVarP(&actor, "actor", "u", "", "Acting user (required)")
	_ = removeCmd.MarkFlagRequired("kind")
	_ = removeCmd.MarkFlagRequired("actor")
	reactionsCmd.AddCommand(removeCmd)

	rootCmd.AddCommand(reactionsCmd)
}
