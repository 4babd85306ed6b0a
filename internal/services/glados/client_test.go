package glados

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func testSettings(serverURL string) Settings {
	return Settings{
		URL:               serverURL,
		RequestTimeout:    5 * time.Second,
		MaxAttempts:       5,
		BackoffBase:       time.Second,
		BackoffMultiplier: 2,
		BackoffCap:        30 * time.Second,
	}
}

func noSleep() Option {
	return WithSleep(func(context.Context, time.Duration) error { return nil })
}

func TestDownloadStreamsBodyToFile(t *testing.T) {
	payload := "RIFF fake wav payload"
	var gotText atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotText.Store(r.URL.Query().Get("text"))
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	dst := filepath.Join(t.TempDir(), "sub", "0-hash.wav")
	client := NewClient(testSettings(server.URL), nil)

	if err := client.Download(t.Context(), "Hello there.", dst); err != nil {
		t.Fatalf("Download: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != payload {
		t.Errorf("file content = %q, want %q", data, payload)
	}
	if gotText.Load() != "Hello there." {
		t.Errorf("text query = %v", gotText.Load())
	}
}

func TestDownloadRetriesTransientStatusThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(testSettings(server.URL), nil,
		WithSleep(func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		}),
		WithJitter(func() float64 { return 0 }),
	)

	dst := filepath.Join(t.TempDir(), "out.wav")
	if err := client.Download(t.Context(), "text", dst); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if got := calls.Load(); got != 4 {
		t.Errorf("attempts = %d, want 4 (3 failures + success)", got)
	}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("slept %v, want %v", slept, want)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("backoff[%d] = %v, want %v", i, slept[i], want[i])
		}
	}
}

func TestDownloadFatalStatusDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	quiet := noSleep()
	client := NewClient(testSettings(server.URL), nil, quiet)

	err := client.Download(t.Context(), "text", filepath.Join(t.TempDir(), "out.wav"))
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 StatusError, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestDownloadExhaustsAttemptBudget(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	settings := testSettings(server.URL)
	settings.MaxAttempts = 3
	quiet := noSleep()
	client := NewClient(settings, nil, quiet)

	err := client.Download(t.Context(), "text", filepath.Join(t.TempDir(), "out.wav"))
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustedError, got %v", err)
	}
	if exhausted.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", exhausted.Attempts)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusTooManyRequests {
		t.Errorf("expected last error to surface the 429, got %v", exhausted.Err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestDownloadRetriesTransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close() // connections now refused

	settings := testSettings(serverURL)
	settings.MaxAttempts = 2
	quiet := noSleep()
	client := NewClient(settings, nil, quiet)

	err := client.Download(t.Context(), "text", filepath.Join(t.TempDir(), "out.wav"))
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected transport errors to be retried until exhaustion, got %v", err)
	}
	if exhausted.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", exhausted.Attempts)
	}
}

func TestBackoffSchedule(t *testing.T) {
	client := NewClient(Settings{
		BackoffBase:       time.Second,
		BackoffMultiplier: 2,
		BackoffCap:        30 * time.Second,
	}, nil)

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{5, 16 * time.Second},
		{6, 30 * time.Second}, // 32s capped
		{10, 30 * time.Second},
	}
	for _, tc := range cases {
		if got := client.Backoff(tc.attempt); got != tc.want {
			t.Errorf("Backoff(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestJitterStaysWithinWindow(t *testing.T) {
	var slept []time.Duration
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	settings := testSettings(server.URL)
	settings.MaxAttempts = 2
	client := NewClient(settings, nil,
		WithSleep(func(_ context.Context, d time.Duration) error {
			slept = append(slept, d)
			return nil
		}),
		WithJitter(func() float64 { return 0.999 }),
	)

	_ = client.Download(t.Context(), "text", filepath.Join(t.TempDir(), "out.wav"))
	if len(slept) != 1 {
		t.Fatalf("expected one backoff sleep, got %v", slept)
	}
	base := client.Backoff(1)
	if slept[0] < base || slept[0] >= base+jitterWindow {
		t.Errorf("jittered delay %v outside [%v, %v)", slept[0], base, base+jitterWindow)
	}
}

func TestDownloadStopsWhenContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(t.Context())
	client := NewClient(testSettings(server.URL), nil,
		WithSleep(func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		}),
	)

	err := client.Download(ctx, "text", filepath.Join(t.TempDir(), "out.wav"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
