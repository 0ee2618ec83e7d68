package moderation

import (
	"fmt"

	"github.com/spf13/cobra"
)

var approveCmd = &cobra.Command{
	Use:   "approve <comment-id>",
	Short: "Approve a comment (or send it back to pending with --revoke)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commentID := args[0]
		revoke, _ := cmd.Flags().GetBool("revoke")

		body := map[string]bool{"approved": !revoke}
		_, err := doRequest("PUT", fmt.Sprintf("/api/comments/%s/approval", commentID), body)
		if err != nil {
			return err
		}

		if revoke {
			fmt.Printf("Comment %s sent back to pending.\n", commentID)
		} else {
			fmt.Printf("Comment %s approved.\n", commentID)
		}
		return nil
	},
}

func init() {
	approveCmd.Flags().Bool("revoke", false, "unapprove instead of approve")
	ModerationCmd.AddCommand(approveCmd)
}
