package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{
			name:    "missing server",
			opts:    []Option{},
			wantErr: true,
		},
		{
			name: "valid config",
			opts: []Option{
				WithServer("https://example.com"),
				WithToken("test-token"),
			},
			wantErr: false,
		},
		{
			name: "empty server",
			opts: []Option{
				WithServer(""),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, client)
			} else {
				require.NoError(t, err)
				require.NotNil(t, client)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "c1", body["clientId"])
		require.Equal(t, "s1", body["clientSecret"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(LoginResponse{Token: "tok-abc", ExpiresIn: 3600, TokenType: "Bearer"})
	}))
	defer server.Close()

	cl, err := New(WithServer(server.URL))
	require.NoError(t, err)

	grant, err := cl.Login(context.Background(), "c1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", grant.Token)
	assert.Equal(t, 3600, grant.ExpiresIn)
	assert.Equal(t, "tok-abc", cl.token)
}

func TestLoginFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid client credentials", "code": "AUTHENTICATION"})
	}))
	defer server.Close()

	cl, err := New(WithServer(server.URL))
	require.NoError(t, err)

	_, err = cl.Login(context.Background(), "c1", "wrong")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "invalid client credentials", apiErr.Message)
	assert.Equal(t, "AUTHENTICATION", apiErr.Code)
	assert.Equal(t, "invalid client credentials (AUTHENTICATION)", apiErr.Error())
}

func TestArtifactURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/download/artifact", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		http.Redirect(w, r, "https://releases.example.com/tool.exe", http.StatusFound)
	}))
	defer server.Close()

	cl, err := New(WithServer(server.URL), WithToken("tok"))
	require.NoError(t, err)

	location, err := cl.ArtifactURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://releases.example.com/tool.exe", location)
}

func TestArtifactURLNoRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cl, err := New(WithServer(server.URL), WithToken("tok"))
	require.NoError(t, err)

	_, err = cl.ArtifactURL(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirect")
}

func TestFileInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/files/info", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(FileInfo{
			URL:      "https://releases.example.com/tool.exe",
			FileName: "tool.exe",
			Source:   "GitHub Releases",
		})
	}))
	defer server.Close()

	cl, err := New(WithServer(server.URL), WithToken("tok"))
	require.NoError(t, err)

	info, err := cl.FileInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tool.exe", info.FileName)
}

func TestListFiles(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/files/list", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"files": []FileEntry{{Name: "a.zip", Size: 42, Created: created}},
		})
	}))
	defer server.Close()

	cl, err := New(WithServer(server.URL), WithToken("tok"))
	require.NoError(t, err)

	files, err := cl.ListFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.zip", files[0].Name)
	assert.Equal(t, int64(42), files[0].Size)
	assert.True(t, files[0].Created.Equal(created))
}

func TestUpload(t *testing.T) {
	payload := []byte("binary payload")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/files/upload", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a.zip", body["fileName"])

		decoded, err := base64.StdEncoding.DecodeString(body["fileData"])
		require.NoError(t, err)
		require.Equal(t, payload, decoded)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(UploadResult{FileName: "a.zip", FileSize: len(payload)})
	}))
	defer server.Close()

	cl, err := New(WithServer(server.URL), WithToken("tok"))
	require.NoError(t, err)

	result, err := cl.Upload(context.Background(), "a.zip", payload)
	require.NoError(t, err)
	assert.Equal(t, "a.zip", result.FileName)
	assert.Equal(t, len(payload), result.FileSize)
}

func TestUploadEmptyName(t *testing.T) {
	cl, err := New(WithServer("https://example.com"))
	require.NoError(t, err)

	_, err = cl.Upload(context.Background(), "  ", []byte("x"))
	require.Error(t, err)
}

func TestDoErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cl, err := New(WithServer(server.URL))
	require.NoError(t, err)

	_, err = cl.do(context.Background(), http.MethodGet, "api/files/info", nil, nil)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Contains(t, apiErr.Message, "502")
}

func TestHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}))
	defer server.Close()

	cl, err := New(WithServer(server.URL))
	require.NoError(t, err)

	doc, err := cl.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", doc["status"])
}
