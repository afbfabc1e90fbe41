package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientSelectsDatabaseFromURL(t *testing.T) {
	s := miniredis.RunT(t)
	ctx := context.Background()

	client, err := NewClient(ctx, "redis://"+s.Addr()+"/3", time.Second)
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if db := client.Options().DB; db != 3 {
		t.Fatalf("db = %d, want 3", db)
	}

	if err := client.Set(ctx, "dashboard:owner-1", "cached", time.Minute).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Select(3)
	if got, _ := s.Get("dashboard:owner-1"); got != "cached" {
		t.Fatalf("key not written to db 3, got %q", got)
	}
}

func TestNewClientErrors(t *testing.T) {
	down := miniredis.RunT(t)
	downURL := "redis://" + down.Addr()
	down.Close()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "invalid url", url: "://bad-url", want: "parse redis URL"},
		{name: "wrong scheme", url: "http://localhost:6379", want: "parse redis URL"},
		{name: "server down", url: downURL, want: "ping redis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(context.Background(), tt.url, 300*time.Millisecond)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q error, got %v", tt.want, err)
			}
		})
	}
}
