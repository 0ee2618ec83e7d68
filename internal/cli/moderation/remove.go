package moderation

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <comment-id>",
	Short: "Delete a comment; deleting a root removes its replies too",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commentID := args[0]

		result, err := doRequest("DELETE", fmt.Sprintf("/api/comments/%s", commentID), nil)
		if err != nil {
			return err
		}

		if data, ok := result["data"].(map[string]interface{}); ok {
			if count, ok := data["deleted_count"].(float64); ok {
				fmt.Printf("Removed %d comment(s).\n", int(count))
				return nil
			}
		}
		fmt.Println("Comment removed.")
		return nil
	},
}

func init() {
	ModerationCmd.AddCommand(removeCmd)
}
