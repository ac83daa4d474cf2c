package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := API(500, `{"error":"boom"}`)
	want := "api error (status 500): unexpected Graph API response"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}

	err = Data("no hashtag ID found")
	want = "data error: no hashtag ID found"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"auth", Auth("no token"), KindAuth},
		{"api", API(500, ""), KindAPI},
		{"rate limit", RateLimit(), KindRateLimit},
		{"network", Network(errors.New("timeout")), KindNetwork},
		{"data", Data("empty"), KindData},
		{"wrapped", fmt.Errorf("context: %w", Data("empty")), KindData},
		{"plain error", errors.New("dial tcp: refused"), KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("crawl: %w", RateLimit())
	if !IsKind(err, KindRateLimit) {
		t.Error("Expected wrapped rate limit error to match KindRateLimit")
	}
	if IsKind(err, KindAuth) {
		t.Error("Rate limit error should not match KindAuth")
	}
}

func TestStatusOf(t *testing.T) {
	if got := StatusOf(API(404, "")); got != 404 {
		t.Errorf("Expected status 404, got %d", got)
	}
	if got := StatusOf(errors.New("plain")); got != 0 {
		t.Errorf("Expected status 0 for plain error, got %d", got)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network", Network(errors.New("timeout")), true},
		{"server error", API(503, ""), true},
		{"client error", API(404, ""), true},
		{"auth", Auth("no token"), false},
		{"data", Data("empty"), false},
		{"parsing", Parsing(errors.New("bad json")), false},
		{"rate limit handled separately", RateLimit(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}
