package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Classic Cotton T-Shirt", "classic-cotton-t-shirt"},
		{"Crème Brûlée Mug", "creme-brulee-mug"},
		{"Shirts & Tees", "shirts-and-tees"},
		{"  Hello   World!  ", "hello-world"},
		{"Kadın Çanta", "kadin-canta"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.input))
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("classic-tee"))
	assert.True(t, Valid("sneaker42"))
	assert.False(t, Valid("Classic-Tee"))
	assert.False(t, Valid("double--hyphen"))
	assert.False(t, Valid("-leading"))
	assert.False(t, Valid("with space"))
	assert.False(t, Valid(""))
}

func TestGenerate_ProducesValidSlugs(t *testing.T) {
	for _, title := range []string{"Running Shoes Pro", "Çocuk Ürünleri", "50% Off!"} {
		assert.True(t, Valid(Generate(title)), title)
	}
}
