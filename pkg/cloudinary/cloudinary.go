package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"resty.dev/v3"
)

const baseURL = "https://api.cloudinary.com/v1_1"

// Client talks to the Cloudinary admin API. Attachments are stored there
// and referenced locally only by URL and public id.
type Client struct {
	cloudName string
	apiKey    string
	apiSecret string
	client    *resty.Client
}

func NewClient(cloudName, apiKey, apiSecret string) *Client {
	return &Client{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client:    resty.New(),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

type destroyResponse struct {
	Result string `json:"result"`
}

// Destroy deletes the stored object by public id. Any result other than
// "ok" is reported as an error so callers can abort their local delete.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	timestamp := time.Now().Unix()
	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(timestamp, 10),
	}

	res, err := c.client.R().
		WithContext(ctx).
		SetFormData(map[string]string{
			"public_id": publicID,
			"timestamp": params["timestamp"],
			"api_key":   c.apiKey,
			"signature": c.sign(params),
		}).
		SetResult(&destroyResponse{}).
		Post(fmt.Sprintf("%s/%s/image/destroy", baseURL, c.cloudName))
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("cloudinary destroy failed with status %d", res.StatusCode())
	}
	if result := res.Result().(*destroyResponse).Result; result != "ok" {
		return fmt.Errorf("cloudinary destroy returned %q", result)
	}
	return nil
}

// SignUploadRequest produces the timestamp and signature a browser needs
// for a signed direct upload.
func (c *Client) SignUploadRequest() (int64, string) {
	timestamp := time.Now().Unix()
	signature := c.sign(map[string]string{
		"timestamp": strconv.FormatInt(timestamp, 10),
	})
	return timestamp, signature
}

// sign implements the Cloudinary request signature: parameters sorted by
// key, joined as key=value with "&", the API secret appended, SHA-1 hex.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}
