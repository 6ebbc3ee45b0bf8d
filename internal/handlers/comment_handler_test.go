package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentLifecycleAndModeration(t *testing.T) {
	e, db := newTestServer(t)
	createSuperuser(t, db)
	aliceToken, _ := registerAndLogin(t, e, "alice", "a@x.com")
	bobToken, _ := registerAndLogin(t, e, "bob", "b@x.com")

	rec := do(e, request{
		method: http.MethodPost,
		path:   "/api/v1/blogs/",
		body:   `{"title":"hello","content":"first post"}`,
		token:  aliceToken,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	blogID := uint(decode(t, rec)["id"].(float64))

	rec = do(e, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/v1/blogs/%d/comments", blogID),
		body:   `{"content":"nice post"}`,
		token:  bobToken,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	comment := decode(t, rec)
	commentID := uint(comment["id"].(float64))
	assert.Equal(t, true, comment["is_approved"])

	// only the author may edit
	rec = do(e, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/api/v1/blogs/comments/%d", commentID),
		body:   `{"content":"edited"}`,
		token:  aliceToken,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/api/v1/blogs/comments/%d", commentID),
		body:   `{"content":"edited"}`,
		token:  bobToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "edited", decode(t, rec)["content"])

	// only a superuser may toggle approval
	rec = do(e, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/api/v1/blogs/comments/%d/toggle-approval", commentID),
		token:  bobToken,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, request{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   `{"email":"admin@x.com","password":"adminpass123"}`,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	adminToken := decode(t, rec)["access_token"].(string)

	rec = do(e, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/api/v1/blogs/comments/%d/toggle-approval", commentID),
		token:  adminToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["is_approved"])

	// unapproved comments disappear for regular viewers but not moderators
	listPath := fmt.Sprintf("/api/v1/blogs/%d/comments", blogID)
	rec = do(e, request{method: http.MethodGet, path: listPath, token: aliceToken})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec.Body.Bytes()), 0)

	rec = do(e, request{method: http.MethodGet, path: listPath, token: adminToken})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList(t, rec.Body.Bytes()), 1)

	// only the author may delete
	rec = do(e, request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/api/v1/blogs/comments/%d", commentID),
		token:  bobToken,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func decodeList(t *testing.T, data []byte) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}
