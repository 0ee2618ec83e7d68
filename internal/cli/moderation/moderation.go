package moderation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ModerationCmd groups the comment moderation commands
var ModerationCmd = &cobra.Command{
	Use:   "comments",
	Short: "Comment moderation commands",
	Long:  "List pending comments, approve or unapprove them, and remove abuse",
}

func serverURL(path string) string {
	return viper.GetString("server.url") + path
}

// doRequest performs an authenticated API call and decodes the standard
// response envelope.
func doRequest(method, path string, body interface{}) (map[string]interface{}, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, serverURL(path), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := viper.GetString("user.token"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unexpected response (%d): %s", resp.StatusCode, string(respBody))
	}

	if result["success"] != true {
		return nil, fmt.Errorf("server error: %v", result["error"])
	}
	return result, nil
}
