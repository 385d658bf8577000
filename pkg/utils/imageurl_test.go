package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeImageURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"file path link", "https://drive.google.com/file/d/1AbC_d-9/view?usp=sharing", "https://lh3.googleusercontent.com/d/1AbC_d-9=s0"},
		{"open id link", "https://drive.google.com/open?id=XyZ123", "https://lh3.googleusercontent.com/d/XyZ123=s0"},
		{"uc link", "https://drive.google.com/uc?export=view&id=Q_w-e", "https://lh3.googleusercontent.com/d/Q_w-e=s0"},
		{"drive without id", "https://drive.google.com/drive/folders", "https://drive.google.com/drive/folders"},
		{"other host", "https://cdn.example.com/d/abc.png", "https://cdn.example.com/d/abc.png"},
		{"already normalized", "https://lh3.googleusercontent.com/d/abc=s0", "https://lh3.googleusercontent.com/d/abc=s0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeImageURL(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeImageURL(got))
		})
	}
}

func TestNormalizeImageURLs(t *testing.T) {
	got := NormalizeImageURLs([]string{"https://drive.google.com/file/d/abc/view", " ", "https://x.io/a.png"})
	assert.Equal(t, []string{"https://lh3.googleusercontent.com/d/abc=s0", "https://x.io/a.png"}, got)
}
