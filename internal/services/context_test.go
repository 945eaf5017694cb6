package services_test

import (
	"context"
	"testing"

	"mediascribe/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithFile(ctx, "/media/lecture.mp4")
	ctx = services.WithFilePosition(ctx, 2, 5)

	if rid, ok := services.RunIDFromContext(ctx); !ok || rid != "run-123" {
		t.Fatalf("unexpected run id: %v %v", rid, ok)
	}
	if file, ok := services.FileFromContext(ctx); !ok || file != "/media/lecture.mp4" {
		t.Fatalf("unexpected file: %v %v", file, ok)
	}
	pos, ok := services.FilePositionFromContext(ctx)
	if !ok || pos.Index != 2 || pos.Count != 5 {
		t.Fatalf("unexpected position: %+v %v", pos, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "")
	ctx = services.WithFile(ctx, "")
	ctx = services.WithFilePosition(ctx, 0, 3)
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected run id to be absent")
	}
	if _, ok := services.FileFromContext(ctx); ok {
		t.Fatal("expected file to be absent")
	}
	if _, ok := services.FilePositionFromContext(ctx); ok {
		t.Fatal("expected position to be absent")
	}
}
