package plagiarism

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	var e *Error
	require.True(t, errors.As(err, &e), "expected *Error, got %v", err)
	require.Equal(t, kind, e.Kind)
	return e
}

func TestValidateInput_Length(t *testing.T) {
	under := strings.Repeat("a", 49999)
	in, err := ValidateInput(under, "", 50000)
	require.NoError(t, err)
	require.Equal(t, TypeText, in.Type)

	_, err = ValidateInput(strings.Repeat("a", 50000), "", 50000)
	e := requireKind(t, err, KindInvalidInput)
	require.Equal(t, "Input too large", e.Label)
	require.Equal(t, "Input must be less than 50,000 characters", e.Message)
	require.Equal(t, 400, e.Status)
}

func TestValidateInput_CountsCharactersNotBytes(t *testing.T) {
	// 3 characters, 9 bytes
	_, err := ValidateInput("日本語", "", 4)
	require.NoError(t, err)
}

func TestValidateInput_RejectsNonStrings(t *testing.T) {
	for _, raw := range []any{nil, "", 42.0, true, []any{"x"}, map[string]any{"a": 1}, "   \n\t"} {
		_, err := ValidateInput(raw, "", 50000)
		e := requireKind(t, err, KindInvalidInput)
		require.Equal(t, "Input must be a non-empty string", e.Message)
	}
}

func TestValidateInput_TrimsAndHonoursHint(t *testing.T) {
	in, err := ValidateInput("  https://example.com  ", "", 50000)
	require.NoError(t, err)
	require.Equal(t, "https://example.com", in.Text)
	require.Equal(t, TypeURL, in.Type)

	in, err = ValidateInput("https://example.com", "text", 50000)
	require.NoError(t, err)
	require.Equal(t, TypeText, in.Type)

	_, err = ValidateInput("hello", "pdf", 50000)
	requireKind(t, err, KindInvalidInput)
}

func TestClassify(t *testing.T) {
	cases := map[string]CheckType{
		"https://example.com":          TypeURL,
		"http://example.com/a?b=c#d":   TypeURL,
		"ftp://files.example.com/x":    TypeURL,
		"mailto:someone@example.com":   TypeURL,
		"The quick brown fox":          TypeText,
		"example.com":                  TypeText,
		"/relative/path":               TypeText,
		"note: this is a sentence":     TypeText,
		"https://exa mple.com":         TypeText,
		"":                             TypeText,
	}
	for in, want := range cases {
		require.Equal(t, want, Classify(in), "input %q", in)
	}
}

func TestCacheKey(t *testing.T) {
	k1 := CacheKey(TypeText, "hello")
	require.Equal(t, k1, CacheKey(TypeText, "hello"))
	require.True(t, strings.HasPrefix(k1, "text:"))
	require.Len(t, strings.TrimPrefix(k1, "text:"), 32)

	require.NotEqual(t, k1, CacheKey(TypeURL, "hello"))
	require.NotEqual(t, k1, CacheKey(TypeText, "hello!"))
}

func TestComputeTextStats(t *testing.T) {
	s := ComputeTextStats("a  b\nc")
	require.Equal(t, 3, s.WordCount)
	require.Equal(t, 2, s.LineCount)
	require.Equal(t, 6, s.Length)
	require.Equal(t, "a  b\nc", s.Preview)

	long := strings.Repeat("x", 250)
	s = ComputeTextStats(long)
	require.Equal(t, strings.Repeat("x", 200)+"...", s.Preview)
	require.Equal(t, 1, s.WordCount)
}

func TestGroupThousands(t *testing.T) {
	require.Equal(t, "0", groupThousands(0))
	require.Equal(t, "999", groupThousands(999))
	require.Equal(t, "50,000", groupThousands(50000))
	require.Equal(t, "1,234,567", groupThousands(1234567))
}
