package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUMMERxKx/nwHacks/internal"
	"github.com/SUMMERxKx/nwHacks/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLocalAuthProvider(t *testing.T) {
	p := NewLocalAuthProvider(map[string]string{"MOCK-TOKEN": "u1"}, internal.NopLogger())

	user, err := p.ValidateTokenLocal("MOCK-TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = p.ValidateTokenLocal("nope")
	assert.ErrorIs(t, err, internal.ErrUnauthenticated)
	_, err = p.ValidateTokenLocal("")
	assert.ErrorIs(t, err, internal.ErrUnauthenticated)
}

func TestRemoteAuthProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		switch body["token"] {
		case "good":
			_, _ = w.Write([]byte(`{"id":"remote-user","name":"R"}`))
		case "empty":
			_, _ = w.Write([]byte(`{}`))
		case "broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	p := NewRemoteAuthProvider(server.URL, internal.NopLogger())
	ctx := context.Background()

	user, err := p.ValidateTokenRemote(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "remote-user", user.ID)

	_, err = p.ValidateTokenRemote(ctx, "bad")
	assert.ErrorIs(t, err, internal.ErrUnauthenticated)
	_, err = p.ValidateTokenRemote(ctx, "empty")
	assert.ErrorIs(t, err, internal.ErrUnauthenticated)
	_, err = p.ValidateTokenRemote(ctx, "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, internal.ErrUnauthenticated)
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{AuthMode: "local"}
	provider, err := NewProvider(cfg, internal.NopLogger())
	require.NoError(t, err)
	provider.(*LocalAuthProvider).tokens["T1"] = "u1"

	r := gin.New()
	r.GET("/me", AuthMiddleware(provider, cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUser(c).ID})
	})

	tests := []struct {
		header string
		status int
	}{
		{"Bearer T1", http.StatusOK},
		{"bearer T1", http.StatusOK},
		{"Bearer   T1  ", http.StatusOK},
		{"", http.StatusUnauthorized},
		{"T1", http.StatusUnauthorized},
		{"Basic T1", http.StatusUnauthorized},
		{"Bearer wrong", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/me", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, tt.status, w.Code, tt.header)
		if tt.status == http.StatusUnauthorized {
			assert.JSONEq(t, `{"error":{"code":401,"message":"Unauthorized"}}`, w.Body.String())
		} else {
			assert.JSONEq(t, `{"id":"u1"}`, w.Body.String())
		}
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(&config.Config{AuthMode: "remote", AuthServiceURL: "http://auth"}, internal.NopLogger())
	require.NoError(t, err)
	assert.IsType(t, &RemoteAuthProvider{}, p)

	_, err = NewProvider(&config.Config{AuthMode: "magic"}, internal.NopLogger())
	assert.Error(t, err)
}
