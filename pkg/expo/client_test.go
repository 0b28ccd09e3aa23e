package expo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidToken(t *testing.T) {
	assert.True(t, ValidToken("ExponentPushToken[abc]"))
	assert.False(t, ValidToken("abc"))
	assert.False(t, ValidToken("exponentpushtoken[abc]"))
}

func TestSendOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var msg Message
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		assert.Equal(t, "ExponentPushToken[abc]", msg.To)
		assert.Equal(t, "default", msg.Sound)
		assert.Equal(t, "summary_ready", msg.Data["type"])
		_, _ = w.Write([]byte(`{"data":{"status":"ok","id":"t1"}}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Send(context.Background(), "ExponentPushToken[abc]", "Zusammenfassung bereit", "body",
		map[string]interface{}{"type": "summary_ready"})
	assert.NoError(t, err)
}

func TestSendDeviceNotRegistered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"status":"error","message":"gone","details":{"error":"DeviceNotRegistered"}}}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL).Send(context.Background(), "ExponentPushToken[abc]", "t", "b", nil)
	assert.ErrorIs(t, err, ErrDeviceNotRegistered)
}

func TestSendSkipsTestAndInvalidTokens(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	assert.NoError(t, c.Send(context.Background(), "ExponentPushToken[test]", "t", "b", nil))
	assert.ErrorIs(t, c.Send(context.Background(), "bogus", "t", "b", nil), ErrInvalidToken)
}
