package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hand carved bowl", "hand carved bowl"},
		{"tags become spaces", "<p>hand carved</p><p>walnut bowl</p>", "hand carved walnut bowl"},
		{"nested markup", "<div><b>solid</b> <i>oak</i></div>", "solid oak"},
		{"whitespace collapsed", "a  lot\n\nof\t space", "a lot of space"},
		{"entities decoded", "salt &amp; pepper", "salt & pepper"},
		{"empty", "", ""},
		{"only markup", "<br><hr/>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "handmade", NormalizeTag("  Handmade "))
	assert.Equal(t, "arts & crafts", NormalizeTag("Arts &amp; Crafts"))
	assert.Equal(t, "", NormalizeTag("   "))
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "https://shop.example.com/collections/all/products.json",
		JoinPath("https://shop.example.com/", "collections/all/products.json"))
	assert.Equal(t, "https://shop.example.com/products/mug",
		JoinPath("https://shop.example.com", "/products/", "mug"))
	assert.Equal(t, "https://shop.example.com", JoinPath("https://shop.example.com/", ""))
}
