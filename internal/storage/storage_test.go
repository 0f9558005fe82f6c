package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	storage_go "github.com/supabase-community/storage-go"
)

func TestAudioStore_UploadAudio(t *testing.T) {
	var gotPath, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Key":"audio/user/video.mp3"}`))
	}))
	defer srv.Close()

	client := storage_go.NewClient(srv.URL, "service-key", nil)
	store := NewAudioStore(client, "audio", logrus.New())

	url, err := store.UploadAudio(context.Background(), "user/video.mp3", []byte("ID3"), "audio/mpeg")
	require.NoError(t, err)

	assert.Contains(t, gotPath, "audio/user/video.mp3")
	assert.Contains(t, gotType, "audio/mpeg")
	assert.Equal(t, []byte("ID3"), gotBody)
	assert.Contains(t, url, "/object/public/audio/user/video.mp3")
}

func TestAudioStore_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("storage should not be called with a cancelled context")
	}))
	defer srv.Close()

	store := NewAudioStore(storage_go.NewClient(srv.URL, "service-key", nil), "audio", logrus.New())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.UploadAudio(ctx, "user/video.mp3", []byte("ID3"), "audio/mpeg")
	assert.ErrorIs(t, err, context.Canceled)
}
