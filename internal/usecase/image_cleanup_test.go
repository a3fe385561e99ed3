package usecase

import (
	"context"
	"testing"

	"github.com/GoArmGo/Foodgram/internal/database/testdb"
	"github.com/GoArmGo/Foodgram/internal/messaging/payloads"
)

func TestCleanupImage(t *testing.T) {
	files := &memFileStorage{files: map[string][]byte{
		"recipes/images/old.png": []byte("x"),
		"other/keep.png":         []byte("y"),
	}}
	uc := NewImageCleanupUseCase(files, testdb.Logger())
	ctx := context.Background()

	for _, key := range []string{"recipes/images/old.png", "other/keep.png", "recipes/images/../../other/keep.png"} {
		if err := uc.CleanupImage(ctx, payloads.ImageCleanupPayload{Key: key, Reason: CleanupReasonReplaced}); err != nil {
			t.Fatalf("cleanup %s: %v", key, err)
		}
	}

	if _, ok := files.files["recipes/images/old.png"]; ok {
		t.Fatal("recipe image must be deleted")
	}
	if _, ok := files.files["other/keep.png"]; !ok {
		t.Fatal("keys outside recipe images must be kept")
	}
}
