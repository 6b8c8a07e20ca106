package corpus

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"disambig/internal/window"
)

func line(center, next string) string {
	groups := make([]string, window.Size)
	for i := range groups {
		groups[i] = "the [ DT the ]"
	}
	groups[window.Center] = center + " [ EX " + center + " ]"
	groups[window.Center+1] = "is [ " + next + " be ]"
	return strings.Join(groups, " ")
}

func TestParseLine(t *testing.T) {
	ex, err := ParseLine(line("there", "VBZ"), true)
	require.NoError(t, err)

	assert.Equal(t, "there", ex.CenterWord())
	assert.True(t, ex.Positive())
	assert.Equal(t, window.Word{Literal: "is", POS: "VBZ", Stem: "be"}, ex.Word(window.Center+1))
	assert.Equal(t, window.Word{Literal: "the", POS: "DT", Stem: "the"}, ex.Word(0))
}

func TestParseLine_Short(t *testing.T) {
	_, err := ParseLine("there [ EX there ]", true)
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestParse_AlternatesAndSkipsBlankLines(t *testing.T) {
	input := strings.Join([]string{
		line("there", "VBZ"),
		line("their", "VBZ"),
		"   ",
		line("their", "NN"),
		line("there", "NN"),
		"",
	}, "\n")

	examples, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, examples, 4)

	want := []struct {
		center   string
		positive bool
	}{
		{"there", true},
		{"their", false},
		{"their", true},
		{"there", false},
	}
	for i, w := range want {
		assert.Equal(t, w.center, examples[i].CenterWord(), "example %d", i)
		assert.Equal(t, w.positive, examples[i].Positive(), "example %d", i)
	}
}

func TestFormatLine_RoundTrip(t *testing.T) {
	src := line("there", "VBZ")
	ex, err := ParseLine(src, true)
	require.NoError(t, err)
	assert.Equal(t, src, FormatLine(ex))
}

func TestRecord(t *testing.T) {
	ex, err := ParseLine(line("their", "NN"), false)
	require.NoError(t, err)

	rec := FormatRecord(ex)
	assert.True(t, strings.HasPrefix(rec, "- "))

	back, err := ParseRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, ex, back)

	_, err = ParseRecord(line("their", "NN"))
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train.txt")
	content := line("there", "VBZ") + "\n" + line("their", "VBZ") + "\n" + line("their", "NN") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	examples, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, examples, 3)
	assert.Equal(t, "their", examples[2].CenterWord())
	assert.True(t, examples[2].Positive())
}

func TestReadFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	examples, err := ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, examples)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRedisCorpus(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	rc := NewRedisCorpus(client, "test-"+t.Name())
	require.NoError(t, rc.Clear(ctx))
	t.Cleanup(func() { rc.Clear(context.Background()) })

	examples, err := Parse(strings.NewReader(line("there", "VBZ") + "\n" + line("their", "VBZ")))
	require.NoError(t, err)

	n, err := rc.Append(ctx, examples...)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	loaded, err := rc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, examples, loaded)
}
