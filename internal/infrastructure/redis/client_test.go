package redis

import (
	"context"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientSuccess(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, fmt.Sprintf("redis://%s", s.Addr()))
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "://bad-url")
	if err == nil {
		t.Fatalf("expected error for invalid URL")
	}
}

func TestNewClientPingFailure(t *testing.T) {
	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close() // close before attempting to connect

	_, err := NewClient(context.Background(), url)
	if err == nil {
		t.Fatalf("expected ping error when server is down")
	}
}

func TestNewClientWithOptionsAppliesPoolSize(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClientWithOptions(context.Background(), fmt.Sprintf("redis://%s/2", s.Addr()), Options{PoolSize: 3})
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if got := client.Options().PoolSize; got != 3 {
		t.Fatalf("expected pool size 3, got %d", got)
	}
	if got := client.Options().DB; got != 2 {
		t.Fatalf("expected db 2 from URL, got %d", got)
	}
}
