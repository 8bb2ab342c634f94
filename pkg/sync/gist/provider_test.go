package gist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmdvault/cmdvault/pkg/sync"
)

func TestUploadCreatesGist(t *testing.T) {
	var gotAuth, gotMethod, gotPath string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "abc123"})
	}))
	defer srv.Close()

	p := NewProvider("tok", "my backup", WithBaseURL(srv.URL))
	id, err := p.Upload(context.Background(), "", map[string]string{"f.json": "[]"})
	require.NoError(t, err)

	assert.Equal(t, "abc123", id)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/gists", gotPath)
	assert.Equal(t, "my backup", gotBody["description"])
	assert.Equal(t, false, gotBody["public"])
	files := gotBody["files"].(map[string]interface{})
	assert.Contains(t, files, "f.json")
}

func TestUploadPatchesExistingGist(t *testing.T) {
	var gotMethod, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "abc123"})
	}))
	defer srv.Close()

	p := NewProvider("tok", "", WithBaseURL(srv.URL))
	id, err := p.Upload(context.Background(), "abc123", map[string]string{"f.json": "[]"})
	require.NoError(t, err)

	assert.Equal(t, "abc123", id)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/gists/abc123", gotPath)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"forbidden", http.StatusForbidden, sync.ErrRateLimited},
		{"too many requests", http.StatusTooManyRequests, sync.ErrRateLimited},
		{"not found", http.StatusNotFound, sync.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			p := NewProvider("tok", "", WithBaseURL(srv.URL))
			_, err := p.Upload(context.Background(), "abc", map[string]string{"f": "x"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestErrorCarriesAPIMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Validation Failed"})
	}))
	defer srv.Close()

	p := NewProvider("tok", "", WithBaseURL(srv.URL))
	_, err := p.Upload(context.Background(), "abc", map[string]string{"f": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Validation Failed")
}

func TestList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gists/abc", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "abc",
			"files": map[string]interface{}{
				"a.json": map[string]interface{}{"size": 12},
				"b.json": map[string]interface{}{"size": 34},
			},
		})
	}))
	defer srv.Close()

	p := NewProvider("tok", "", WithBaseURL(srv.URL))
	files, err := p.List(context.Background(), "abc")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFetchInline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "abc",
			"files": map[string]interface{}{
				"a.json": map[string]interface{}{"content": `["ok"]`},
			},
		})
	}))
	defer srv.Close()

	p := NewProvider("tok", "", WithBaseURL(srv.URL))
	data, err := p.Fetch(context.Background(), "abc", "a.json")
	require.NoError(t, err)
	assert.Equal(t, `["ok"]`, string(data))

	_, err = p.Fetch(context.Background(), "abc", "missing.json")
	assert.Error(t, err)
}

func TestFetchFollowsRawURLWhenTruncated(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/raw/a.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("full content"))
	})
	mux.HandleFunc("/gists/abc", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "abc",
			"files": map[string]interface{}{
				"a.json": map[string]interface{}{
					"content":   "partial",
					"truncated": true,
					"raw_url":   srv.URL + "/raw/a.json",
				},
			},
		})
	})

	p := NewProvider("tok", "", WithBaseURL(srv.URL))
	data, err := p.Fetch(context.Background(), "abc", "a.json")
	require.NoError(t, err)
	assert.Equal(t, "full content", string(data))
}

func TestDeletePatchesFilesToNull(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": "abc"})
	}))
	defer srv.Close()

	p := NewProvider("tok", "", WithBaseURL(srv.URL))
	require.NoError(t, p.Delete(context.Background(), "abc", []string{"old.json"}))

	files := gotBody["files"].(map[string]interface{})
	val, present := files["old.json"]
	assert.True(t, present)
	assert.Nil(t, val, "deletion must send an explicit null")
}

func TestLocate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gists", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": "other", "files": map[string]interface{}{"notes.md": map[string]interface{}{}}},
			{"id": "backup", "files": map[string]interface{}{sync.LatestFile: map[string]interface{}{}}},
		})
	}))
	defer srv.Close()

	p := NewProvider("tok", "", WithBaseURL(srv.URL))
	id, err := p.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "backup", id)
}

func TestLocateNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{})
	}))
	defer srv.Close()

	p := NewProvider("tok", "", WithBaseURL(srv.URL))
	_, err := p.Locate(context.Background())
	assert.ErrorIs(t, err, sync.ErrNotFound)
}
