package minio

import "testing"

func TestObjectURL(t *testing.T) {
	tests := []struct {
		base, bucket, key string
		want              string
	}{
		{"http://localhost:9000", "foodgram", "recipes/images/a.png", "http://localhost:9000/foodgram/recipes/images/a.png"},
		{"https://cdn.example.com/", "media", "/recipes/images/b.jpg", "https://cdn.example.com/media/recipes/images/b.jpg"},
	}

	for _, tt := range tests {
		if got := ObjectURL(tt.base, tt.bucket, tt.key); got != tt.want {
			t.Fatalf("ObjectURL(%q, %q, %q) = %q, want %q", tt.base, tt.bucket, tt.key, got, tt.want)
		}
	}
}
