package httpapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpovs/filedepot/internal/logging"
	"github.com/akarpovs/filedepot/internal/server/blob"
	"github.com/akarpovs/filedepot/internal/server/repositories/nodes"
	"github.com/akarpovs/filedepot/internal/server/repositories/users"
	"github.com/akarpovs/filedepot/internal/server/services"
	"github.com/akarpovs/filedepot/internal/server/sessions"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	sess := sessions.New(128, time.Minute)
	usersSvc := services.NewUserService(users.NewMemoryRepository(), sess, log)
	nodesSvc := services.NewNodeService(nodes.NewMemoryRepository(), blob.NewMemoryStore(), log)

	ts := httptest.NewServer(NewServer(usersSvc, nodesSvc, log).Router())
	t.Cleanup(ts.Close)
	return ts
}

func doRequest(t *testing.T, ts *httptest.Server, method, path, token string, body any) *http.Response {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, ts.URL+path, buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func registerAndConnect(t *testing.T, ts *httptest.Server, email, password string) string {
	t.Helper()

	resp := doRequest(t, ts, http.MethodPost, "/users", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/connect", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization",
		"Basic "+base64.StdEncoding.EncodeToString([]byte(email+":"+password)))
	resp, err = ts.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

type nodeBody struct {
	ID       string `json:"id"`
	OwnerID  string `json:"ownerId"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

func createNode(t *testing.T, ts *httptest.Server, token string, req map[string]any) nodeBody {
	t.Helper()

	resp := doRequest(t, ts, http.MethodPost, "/files", token, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var node nodeBody
	decodeBody(t, resp, &node)
	return node
}

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func TestRegisterAndMe(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndConnect(t, ts, "a@b.c", "secret")

	resp := doRequest(t, ts, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	decodeBody(t, resp, &me)
	assert.NotEmpty(t, me.ID)
	assert.Equal(t, "a@b.c", me.Email)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
		code string
	}{
		{"missing email", map[string]string{"password": "x"}, "missing_email"},
		{"missing password", map[string]string{"email": "a@b.c"}, "missing_password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, ts, http.MethodPost, "/users", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body struct {
				Code string `json:"code"`
			}
			decodeBody(t, resp, &body)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	registerAndConnect(t, ts, "a@b.c", "secret")

	resp := doRequest(t, ts, http.MethodPost, "/users", "", map[string]string{
		"email": "a@b.c", "password": "other",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConnectRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)
	registerAndConnect(t, ts, "a@b.c", "secret")

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/connect", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Basic "+b64("a@b.c:wrong"))

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/users/me", "/files"} {
		resp := doRequest(t, ts, http.MethodGet, path, "", nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)

		resp = doRequest(t, ts, http.MethodGet, path, "bogus-token", nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestDisconnect(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndConnect(t, ts, "a@b.c", "secret")

	resp := doRequest(t, ts, http.MethodGet, "/disconnect", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// the revoked token no longer authenticates
	resp = doRequest(t, ts, http.MethodGet, "/users/me", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// disconnecting again, or without any token, is still 204
	resp = doRequest(t, ts, http.MethodGet, "/disconnect", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = doRequest(t, ts, http.MethodGet, "/disconnect", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCreateFolder(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndConnect(t, ts, "a@b.c", "secret")

	node := createNode(t, ts, token, map[string]any{"name": "docs", "kind": "folder"})
	assert.NotEmpty(t, node.ID)
	assert.Equal(t, "docs", node.Name)
	assert.Equal(t, "folder", node.Kind)
	assert.Equal(t, "0", node.ParentID)
	assert.False(t, node.IsPublic)
}

func TestCreateRejections(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndConnect(t, ts, "a@b.c", "secret")

	tests := []struct {
		name string
		body map[string]any
		code string
	}{
		{"unknown field", map[string]any{"name": "a", "kind": "folder", "extra": 1}, "unknown_field"},
		{"wrong type", map[string]any{"name": 5, "kind": "folder"}, "invalid_field_type"},
		{"missing name", map[string]any{"kind": "folder"}, "missing_name"},
		{"missing kind", map[string]any{"name": "a"}, "missing_kind"},
		{"bad kind", map[string]any{"name": "a", "kind": "link"}, "invalid_kind"},
		{"file without payload", map[string]any{"name": "a.txt", "kind": "file"}, "missing_payload"},
		{"bad chars", map[string]any{"name": "a/b", "kind": "folder"}, "invalid_name"},
		{"folder with dot", map[string]any{"name": "v1.2", "kind": "folder"}, "folder_name_dot"},
		{"payload not base64", map[string]any{"name": "a.txt", "kind": "file", "payload": "%%"}, "payload_not_base64"},
		{"bad parent id", map[string]any{"name": "a", "kind": "folder", "parentId": "zzz"}, "invalid_parent_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, ts, http.MethodPost, "/files", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body struct {
				Code string `json:"code"`
			}
			decodeBody(t, resp, &body)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestCreateUnderParentAndList(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndConnect(t, ts, "a@b.c", "secret")

	folder := createNode(t, ts, token, map[string]any{"name": "docs", "kind": "folder"})
	file := createNode(t, ts, token, map[string]any{
		"name": "readme.txt", "kind": "file", "payload": b64("Hello"), "parentId": folder.ID,
	})
	assert.Equal(t, folder.ID, file.ParentID)

	resp := doRequest(t, ts, http.MethodGet, "/files?parentId="+folder.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []nodeBody
	decodeBody(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, file.ID, list[0].ID)

	// root listing shows only the folder
	resp = doRequest(t, ts, http.MethodGet, "/files", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, folder.ID, list[0].ID)
}

func TestCreateUnderFileParent(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndConnect(t, ts, "a@b.c", "secret")

	file := createNode(t, ts, token, map[string]any{
		"name": "a.txt", "kind": "file", "payload": b64("x"),
	})

	resp := doRequest(t, ts, http.MethodPost, "/files", token, map[string]any{
		"name": "b.txt", "kind": "file", "payload": b64("y"), "parentId": file.ID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body struct {
		Code string `json:"code"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "parent_not_folder", body.Code)
}

func TestListPaginationAndMalformedPage(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndConnect(t, ts, "a@b.c", "secret")

	for i := 0; i < 25; i++ {
		createNode(t, ts, token, map[string]any{"name": "folder" + string(rune('a'+i)), "kind": "folder"})
	}

	resp := doRequest(t, ts, http.MethodGet, "/files?page=0", token, nil)
	var list []nodeBody
	decodeBody(t, resp, &list)
	assert.Len(t, list, 20)

	resp = doRequest(t, ts, http.MethodGet, "/files?page=1", token, nil)
	decodeBody(t, resp, &list)
	assert.Len(t, list, 5)

	resp = doRequest(t, ts, http.MethodGet, "/files?page=7", token, nil)
	decodeBody(t, resp, &list)
	assert.Empty(t, list)

	// a malformed page falls back to the first page
	resp = doRequest(t, ts, http.MethodGet, "/files?page=abc", token, nil)
	decodeBody(t, resp, &list)
	assert.Len(t, list, 20)
}

func TestListUnresolvableParent(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndConnect(t, ts, "a@b.c", "secret")

	resp := doRequest(t, ts, http.MethodGet, "/files?parentId=7b3a54a6-19a8-4e9e-b81c-1c4b1b3f8b00", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetNode(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndConnect(t, ts, "a@b.c", "secret")
	other := registerAndConnect(t, ts, "x@y.z", "secret")

	node := createNode(t, ts, token, map[string]any{"name": "docs", "kind": "folder"})

	resp := doRequest(t, ts, http.MethodGet, "/files/"+node.ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got nodeBody
	decodeBody(t, resp, &got)
	assert.Equal(t, node.ID, got.ID)

	// metadata reads are owner-only
	resp = doRequest(t, ts, http.MethodGet, "/files/"+node.ID, other, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, ts, http.MethodGet, "/files/not-a-uuid", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPublishUnpublish(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndConnect(t, ts, "a@b.c", "secret")
	other := registerAndConnect(t, ts, "x@y.z", "secret")

	node := createNode(t, ts, token, map[string]any{
		"name": "a.txt", "kind": "file", "payload": b64("x"),
	})

	resp := doRequest(t, ts, http.MethodPut, "/files/"+node.ID+"/publish", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated nodeBody
	decodeBody(t, resp, &updated)
	assert.True(t, updated.IsPublic)

	resp = doRequest(t, ts, http.MethodPut, "/files/"+node.ID+"/unpublish", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &updated)
	assert.False(t, updated.IsPublic)

	// only the owner can change visibility
	resp = doRequest(t, ts, http.MethodPut, "/files/"+node.ID+"/publish", other, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNodeData(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndConnect(t, ts, "a@b.c", "secret")

	node := createNode(t, ts, token, map[string]any{
		"name": "readme.txt", "kind": "file", "payload": b64("Hello"),
	})

	resp := doRequest(t, ts, http.MethodGet, "/files/"+node.ID+"/data", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Hello", string(data))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
}

func TestNodeDataVisibility(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndConnect(t, ts, "a@b.c", "secret")

	private := createNode(t, ts, token, map[string]any{
		"name": "secret.txt", "kind": "file", "payload": b64("hidden"),
	})

	// anonymous read of a private payload is not-found
	resp := doRequest(t, ts, http.MethodGet, "/files/"+private.ID+"/data", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// a stale token degrades to anonymous instead of rejecting
	resp = doRequest(t, ts, http.MethodGet, "/files/"+private.ID+"/data", "stale", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, ts, http.MethodPut, "/files/"+private.ID+"/publish", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doRequest(t, ts, http.MethodGet, "/files/"+private.ID+"/data", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hidden", string(data))
}

func TestNodeDataFolderAndSize(t *testing.T) {
	ts := newTestServer(t)
	token := registerAndConnect(t, ts, "a@b.c", "secret")

	folder := createNode(t, ts, token, map[string]any{"name": "docs", "kind": "folder"})
	resp := doRequest(t, ts, http.MethodGet, "/files/"+folder.ID+"/data", token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	file := createNode(t, ts, token, map[string]any{
		"name": "photo.png", "kind": "image", "payload": b64("img"),
	})

	resp = doRequest(t, ts, http.MethodGet, "/files/"+file.ID+"/data?size=42", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body struct {
		Code string `json:"code"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "invalid_size", body.Code)

	// a valid size with no generated rendition is missing, not invalid
	resp = doRequest(t, ts, http.MethodGet, "/files/"+file.ID+"/data?size=250", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
