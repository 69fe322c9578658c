package jellyfin

import (
	"fmt"
	"net/url"
)

// GetStreamURL returns a direct-play streaming URL for an item. The file is
// served untouched so frame timing matches the dataset.
func (c *Client) GetStreamURL(itemID string) string {
	params := url.Values{}
	params.Set("Static", "true")
	params.Set("api_key", c.token)
	return fmt.Sprintf("%s/Videos/%s/stream?%s",
		c.serverURL, url.PathEscape(itemID), params.Encode())
}
