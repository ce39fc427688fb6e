package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1/"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{APIKey: "  "}); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestGenerateImageReturnsHostedURL(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/generations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload["size"] != "1024x1536" {
			t.Errorf("expected portrait size, got %v", payload["size"])
		}
		if prompt, _ := payload["prompt"].(string); !strings.Contains(prompt, "ocean sunset") {
			t.Errorf("expected user prompt in payload, got %q", prompt)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"url":"https://images.example/bg.png"}]}`))
	})

	result, err := client.GenerateImage(context.Background(), ImageRequest{Prompt: "  ocean   sunset ", Width: 400, Height: 700, Type: ImageProfile})
	if err != nil {
		t.Fatalf("GenerateImage returned error: %v", err)
	}
	if result.ImageURL != "https://images.example/bg.png" {
		t.Fatalf("unexpected image url %q", result.ImageURL)
	}
}

func TestGenerateImageWrapsBase64(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"b64_json":"iVBORw0KGgo="}]}`))
	})

	result, err := client.GenerateImage(context.Background(), ImageRequest{Prompt: "marble", Type: ImageMenu})
	if err != nil {
		t.Fatalf("GenerateImage returned error: %v", err)
	}
	if result.ImageURL != "data:image/png;base64,iVBORw0KGgo=" {
		t.Fatalf("unexpected data url %q", result.ImageURL)
	}
}

func TestGenerateImageErrors(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	})

	if _, err := client.GenerateImage(context.Background(), ImageRequest{Prompt: "   "}); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("expected ErrEmptyPrompt, got %v", err)
	}
	if _, err := client.GenerateImage(context.Background(), ImageRequest{Prompt: strings.Repeat("a", maxPromptLength+1)}); err == nil {
		t.Fatal("expected error for oversized prompt")
	}
	_, err := client.GenerateImage(context.Background(), ImageRequest{Prompt: "forest"})
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected upstream status error, got %v", err)
	}
}

func TestGenerateImageCollapsesConcurrentDuplicates(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	arrived := make(chan struct{}, 1)
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		arrived <- struct{}{}
		<-release
		_, _ = w.Write([]byte(`{"data":[{"url":"https://images.example/shared.png"}]}`))
	})

	const callers = 4
	var wg sync.WaitGroup
	results := make([]string, callers)
	generate := func(i int) {
		defer wg.Done()
		res, err := client.GenerateImage(context.Background(), ImageRequest{Prompt: "same prompt"})
		if err != nil {
			t.Errorf("GenerateImage returned error: %v", err)
			return
		}
		results[i] = res.ImageURL
	}

	wg.Add(1)
	go generate(0)
	<-arrived

	wg.Add(callers - 1)
	for i := 1; i < callers; i++ {
		go generate(i)
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one upstream call, got %d", got)
	}
	for _, url := range results {
		if url != "https://images.example/shared.png" {
			t.Fatalf("unexpected shared result %q", url)
		}
	}
}

func TestSnapSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		w, h int
		want string
	}{
		{0, 0, "1024x1024"},
		{800, 800, "1024x1024"},
		{1200, 600, "1536x1024"},
		{600, 1200, "1024x1536"},
		{-1, 500, "1024x1024"},
	}
	for _, tt := range tests {
		if got := snapSize(tt.w, tt.h); got != tt.want {
			t.Fatalf("snapSize(%d, %d) = %q, want %q", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestGenerateImageSharedCallOutlivesCancelledCaller(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	arrived := make(chan struct{}, 1)
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		arrived <- struct{}{}
		<-release
		_, _ = w.Write([]byte(`{"data":[{"url":"https://images.example/waves.png"}]}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := client.GenerateImage(ctx, ImageRequest{Prompt: "waves"})
		firstErr <- err
	}()
	<-arrived

	type outcome struct {
		url string
		err error
	}
	second := make(chan outcome, 1)
	go func() {
		res, err := client.GenerateImage(context.Background(), ImageRequest{Prompt: "waves"})
		second <- outcome{res.ImageURL, err}
	}()
	time.Sleep(100 * time.Millisecond)

	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled caller error = %v, want context.Canceled", err)
	}

	close(release)
	got := <-second
	if got.err != nil {
		t.Fatalf("live caller returned error: %v", got.err)
	}
	if got.url != "https://images.example/waves.png" {
		t.Fatalf("live caller url = %q", got.url)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected one upstream call, got %d", n)
	}
}
