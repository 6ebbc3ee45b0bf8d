package cloudinary

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign_SortedParams(t *testing.T) {
	c := NewClient("cloud", "key", "secret")

	got := c.sign(map[string]string{
		"timestamp": "1700000000",
		"public_id": "blog/42",
	})

	sum := sha1.Sum([]byte("public_id=blog/42&timestamp=1700000000secret"))
	assert.Equal(t, hex.EncodeToString(sum[:]), got)
}

func TestSignUploadRequest(t *testing.T) {
	c := NewClient("cloud", "key", "secret")

	timestamp, signature := c.SignUploadRequest()
	require.NotZero(t, timestamp)

	sum := sha1.Sum([]byte(fmt.Sprintf("timestamp=%dsecret", timestamp)))
	assert.Equal(t, hex.EncodeToString(sum[:]), signature)
}
