package moderation

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending <post-id>",
	Short: "List pending comments on a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		postID := args[0]
		page, _ := cmd.Flags().GetInt("page")

		result, err := doRequest("GET", fmt.Sprintf("/api/posts/%s/comments?page=%d&page_size=50", postID, page), nil)
		if err != nil {
			return err
		}

		data, ok := result["data"].(map[string]interface{})
		if !ok {
			return fmt.Errorf("malformed response")
		}
		comments, _ := data["comments"].([]interface{})

		shown := 0
		for _, raw := range comments {
			root, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			shown += printIfPending(root)
			replies, _ := root["replies"].([]interface{})
			for _, rawReply := range replies {
				if reply, ok := rawReply.(map[string]interface{}); ok {
					shown += printIfPending(reply)
				}
			}
		}

		if shown == 0 {
			fmt.Println("No pending comments on this page.")
		}
		return nil
	},
}

func printIfPending(comment map[string]interface{}) int {
	if approved, _ := comment["is_approved"].(bool); approved {
		return 0
	}
	fmt.Printf("%s  by %s  %q\n", comment["id"], comment["author_id"], comment["content"])
	return 1
}

func init() {
	pendingCmd.Flags().Int("page", 1, "page of root comments to inspect")
	ModerationCmd.AddCommand(pendingCmd)
}
