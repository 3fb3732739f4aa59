package ytvideoid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"watch url", "https://www.youtube.com/watch?v=abcdefghijk", "abcdefghijk"},
		{"watch url with trailing params", "https://www.youtube.com/watch?v=abcdefghijk&t=5", "abcdefghijk"},
		{"watch url with several params", "https://youtube.com/watch?v=dQw4w9WgXcQ&list=PL123&index=2", "dQw4w9WgXcQ"},
		{"watch url with param before v", "https://www.youtube.com/watch?feature=share&v=abcdefghijk", "abcdefghijk"},
		{"v marker terminated by question mark", ".../watch?v=abcdefghijk?si=xyz", "abcdefghijk"},
		{"no scheme", "youtube.com/watch?v=a_b-c1234XY", "a_b-c1234XY"},
		{"mobile host", "https://m.youtube.com/watch?v=abcdefghijk&feature=youtu.be", "abcdefghijk"},
		{"short link", "youtu.be/abcdefghijk", "abcdefghijk"},
		{"short link with scheme", "https://youtu.be/abcdefghijk", "abcdefghijk"},
		{"short link with trailing params", "youtu.be/abcdefghijk?si=xyz", "abcdefghijk"},
		{"short link with timestamp", "https://youtu.be/abcdefghijk?t=42", "abcdefghijk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"bare id is not a url shape", "abcdefghijk"},
		{"other host", "https://vimeo.com/123456789"},
		{"embed path", "https://www.youtube.com/embed/abcdefghijk"},
		{"empty v", "https://www.youtube.com/watch?v="},
		{"empty v with params", "https://www.youtube.com/watch?v=&t=5"},
		{"too short v", "https://www.youtube.com/watch?v=abc"},
		{"too long v", "https://www.youtube.com/watch?v=abcdefghijkl"},
		{"too long v with params", "https://www.youtube.com/watch?v=abcdefghijkl&t=5"},
		{"short link empty", "https://youtu.be/"},
		{"short link too short", "youtu.be/abc?si=xyz"},
		{"short link too long", "youtu.be/abcdefghijklmn"},
		{"short link with path suffix", "youtu.be/abcdefghijk/extra"},
		{"marker only", "youtu.be"},
		{"ten runes in eleven bytes", "https://www.youtube.com/watch?v=aaaaaaaaaé"},
		{"eleven runes with non-ascii", "https://www.youtube.com/watch?v=aaaaaaaaaaé"},
		{"short link with non-ascii", "youtu.be/aaaaaaaaaé?si=xyz"},
		{"v with invalid characters", "https://www.youtube.com/watch?v=abc!efghijk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.ErrorIs(t, err, ErrInvalidReference)
		})
	}
}

func TestResolve(t *testing.T) {
	id, err := Resolve("abcdefghijk")
	require.NoError(t, err)
	assert.Equal(t, "abcdefghijk", id)

	id, err = Resolve("  https://youtu.be/abcdefghijk?si=1 ")
	require.NoError(t, err)
	assert.Equal(t, "abcdefghijk", id)

	_, err = Resolve("abc def ghi")
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = Resolve("")
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestIsID(t *testing.T) {
	assert.True(t, IsID("dQw4w9WgXcQ"))
	assert.True(t, IsID("a_b-c1234XY"))
	assert.False(t, IsID("dQw4w9WgXc"))
	assert.False(t, IsID("dQw4w9WgXcQQ"))
	assert.False(t, IsID("dQw4w9WgX!Q"))
}
