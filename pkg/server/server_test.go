package server

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func newTestCompleter(opts ...suggest.Option) *suggest.Completer {
	c := suggest.NewCompleter(append([]suggest.Option{suggest.WithThresholds(1, 1), suggest.WithHotCache(0)}, opts...)...)
	for word, freq := range map[string]int{
		"hello":  100,
		"world":  90,
		"help":   80,
		"work":   75,
		"word":   70,
		"hell":   60,
		"helmet": 40,
	} {
		c.AddWord(word, freq)
	}
	return c
}

// serve runs a server over the encoded requests and returns a decoder
// positioned at the first response.
func serve(t *testing.T, completer suggest.ICompleter, cfg *config.Config, configPath string, requests ...any) *msgpack.Decoder {
	t.Helper()

	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range requests {
		require.NoError(t, enc.Encode(req))
	}

	srv := NewServer(completer, cfg, configPath, WithIO(&in, &out))
	require.NoError(t, srv.Start())
	return msgpack.NewDecoder(&out)
}

func decode[T any](t *testing.T, dec *msgpack.Decoder) T {
	t.Helper()

	var v T
	require.NoError(t, dec.Decode(&v))
	return v
}

func chunkCount(n int) *int {
	return &n
}

func TestComplete(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	dec := serve(t, newTestCompleter(), cfg, "",
		Request{ID: "1", Prefix: "hel", Limit: 2},
		Request{ID: "2", Action: ActionComplete, Prefix: "Wor"},
	)

	resp := decode[CompletionResponse](t, dec)
	assert.Equal(t, "1", resp.ID)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []CompletionSuggestion{{Word: "hello", Rank: 1}, {Word: "help", Rank: 2}}, resp.Suggestions.Items())
	assert.GreaterOrEqual(t, resp.TimeTaken, int64(0))

	resp = decode[CompletionResponse](t, dec)
	assert.Equal(t, "2", resp.ID)
	assert.Equal(t, []CompletionSuggestion{{Word: "World", Rank: 1}, {Word: "Work", Rank: 2}, {Word: "Word", Rank: 3}}, resp.Suggestions.Items())
}

func TestCompleteValidation(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Server.MaxLimit = 1
	cfg.Server.MaxPrefix = 4

	dec := serve(t, newTestCompleter(), cfg, "",
		Request{ID: "clamped", Prefix: "hel", Limit: 10},
		Request{ID: "long", Prefix: "helmet"},
		Request{ID: "empty"},
		Request{ID: "digits", Prefix: "123"},
	)

	resp := decode[CompletionResponse](t, dec)
	assert.Equal(t, 1, resp.Count)

	errResp := decode[CompletionError](t, dec)
	assert.Equal(t, "long", errResp.ID)
	assert.Equal(t, CodeBadRequest, errResp.Code)
	assert.Contains(t, errResp.Error, "maximum length")

	errResp = decode[CompletionError](t, dec)
	assert.Equal(t, "empty", errResp.ID)
	assert.Equal(t, "missing prefix", errResp.Error)

	resp = decode[CompletionResponse](t, dec)
	assert.Equal(t, "digits", resp.ID)
	assert.Equal(t, 0, resp.Count)
	assert.True(t, resp.Suggestions.IsEmpty())
}

func TestCompleteFuzzy(t *testing.T) {
	t.Parallel()

	dec := serve(t, newTestCompleter(), config.DefaultConfig(), "",
		Request{ID: "f", Prefix: "wrk", Fuzzy: true},
		Request{ID: "plain", Prefix: "wrk"},
	)

	resp := decode[CompletionResponse](t, dec)
	first, ok := resp.Suggestions.Peek()
	require.True(t, ok)
	assert.Equal(t, "work", first.Word)
	assert.Equal(t, "work", resp.CorrectedPrefix)

	resp = decode[CompletionResponse](t, dec)
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.CorrectedPrefix)
}

func TestMatch(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Trie.MaxPatternLen = 6

	dec := serve(t, newTestCompleter(), cfg, "",
		Request{ID: "m", Action: ActionMatch, Prefix: "wor."},
		Request{ID: "bad", Action: ActionMatch, Prefix: "w$r."},
		Request{ID: "long", Action: ActionMatch, Prefix: "......."},
		Request{ID: "empty", Action: ActionMatch},
	)

	resp := decode[CompletionResponse](t, dec)
	assert.Equal(t, []CompletionSuggestion{{Word: "work", Rank: 1}, {Word: "word", Rank: 2}}, resp.Suggestions.Items())

	for _, id := range []string{"bad", "long", "empty"} {
		errResp := decode[CompletionError](t, dec)
		assert.Equal(t, id, errResp.ID)
		assert.Equal(t, CodeBadRequest, errResp.Code)
	}
}

func TestLookups(t *testing.T) {
	t.Parallel()

	dec := serve(t, newTestCompleter(), config.DefaultConfig(), "",
		Request{ID: "l", Action: ActionLongest, Prefix: "helloworld"},
		Request{ID: "l2", Action: ActionLongest, Prefix: "xyz"},
		Request{ID: "c", Action: ActionContains, Prefix: "world"},
		Request{ID: "c2", Action: ActionContains, Prefix: "wor"},
	)

	tests := []struct {
		id    string
		word  string
		found bool
	}{
		{"l", "hello", true},
		{"l2", "", false},
		{"c", "world", true},
		{"c2", "wor", false},
	}
	for _, tt := range tests {
		resp := decode[LookupResponse](t, dec)
		assert.Equal(t, tt.id, resp.ID)
		assert.Equal(t, tt.word, resp.Word)
		assert.Equal(t, tt.found, resp.Found)
	}
}

func TestBadRequests(t *testing.T) {
	t.Parallel()

	dec := serve(t, newTestCompleter(), config.DefaultConfig(), "",
		"not a request",
		Request{ID: "u", Action: "explode", Prefix: "a"},
		Request{ID: "ok", Prefix: "hell"},
	)

	errResp := decode[CompletionError](t, dec)
	assert.Equal(t, "", errResp.ID)
	assert.Equal(t, "invalid request", errResp.Error)

	errResp = decode[CompletionError](t, dec)
	assert.Equal(t, "u", errResp.ID)
	assert.Contains(t, errResp.Error, "unknown action")

	resp := decode[CompletionResponse](t, dec)
	assert.Equal(t, "ok", resp.ID)
	assert.Equal(t, 1, resp.Count)
}

func TestDictionaryStatic(t *testing.T) {
	t.Parallel()

	dec := serve(t, newTestCompleter(), config.DefaultConfig(), "",
		Request{ID: "d", Action: ActionGetInfo},
	)

	resp := decode[DictionaryResponse](t, dec)
	assert.Equal(t, "error", resp.Status)
	assert.NotEmpty(t, resp.Error)
}

func TestDictionaryActions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i, words := range [][]string{{"alpha", "beta"}, {"gamma", "delta"}, {"omega"}} {
		entries := make([]dictionary.Entry, len(words))
		for j, w := range words {
			entries[j] = dictionary.Entry{Word: w, Rank: uint16(i*10 + j + 1)}
		}
		require.NoError(t, dictionary.WriteChunkFile(filepath.Join(dir, dictionary.ChunkFileName(i+1)), entries))
	}

	completer := suggest.NewLazyCompleter(dir, 2, 0, suggest.WithThresholds(0, 0))
	t.Cleanup(completer.Stop)

	dec := serve(t, completer, config.DefaultConfig(), "",
		Request{ID: "size", Action: ActionSetSize, ChunkCount: chunkCount(2)},
		Request{ID: "info", Action: ActionGetInfo},
		Request{ID: "opts", Action: ActionGetOptions},
		Request{ID: "big", Action: ActionSetSize, ChunkCount: chunkCount(5)},
		Request{ID: "none", Action: ActionSetSize},
		Request{ID: "word", Action: ActionContains, Prefix: "delta"},
	)

	resp := decode[DictionaryResponse](t, dec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.CurrentChunks)
	assert.Equal(t, 3, resp.AvailableChunks)

	resp = decode[DictionaryResponse](t, dec)
	assert.Equal(t, "info", resp.ID)
	assert.Equal(t, 2, resp.CurrentChunks)
	assert.Equal(t, 2, resp.TargetChunks)
	assert.Equal(t, 5, resp.MaxWords)

	resp = decode[DictionaryResponse](t, dec)
	require.Len(t, resp.Options, 3)
	assert.Equal(t, DictionarySizeOption{ChunkCount: 2, WordCount: 4, SizeLabel: "0K words"}, resp.Options[1])

	resp = decode[DictionaryResponse](t, dec)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "only 3 available")

	resp = decode[DictionaryResponse](t, dec)
	assert.Equal(t, "missing chunk_count", resp.Error)

	lookup := decode[LookupResponse](t, dec)
	assert.True(t, lookup.Found)
}

func TestConfigReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nmax_limit = 1\n"), 0o644))

	cfg := config.DefaultConfig()
	cfg.Server.ReloadEvery = 2

	dec := serve(t, newTestCompleter(), cfg, path,
		Request{ID: "1", Prefix: "hel", Limit: 5},
		Request{ID: "2", Prefix: "hel", Limit: 5},
		Request{ID: "3", Prefix: "hel", Limit: 5},
	)

	assert.Equal(t, 4, decode[CompletionResponse](t, dec).Count)
	assert.Equal(t, 1, decode[CompletionResponse](t, dec).Count)
	assert.Equal(t, 1, decode[CompletionResponse](t, dec).Count)
}

func TestRequestMoreWords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i, words := range [][]string{{"alpha", "beta"}, {"gamma", "delta"}} {
		entries := make([]dictionary.Entry, len(words))
		for j, w := range words {
			entries[j] = dictionary.Entry{Word: w, Rank: uint16(j + 1)}
		}
		require.NoError(t, dictionary.WriteChunkFile(filepath.Join(dir, dictionary.ChunkFileName(i+1)), entries))
	}

	completer := suggest.NewLazyCompleter(dir, 2, 2, suggest.WithThresholds(0, 0))
	t.Cleanup(completer.Stop)
	require.NoError(t, completer.Initialize())
	require.Eventually(t, func() bool {
		return completer.Contains("beta")
	}, 2*time.Second, 10*time.Millisecond)

	dec := serve(t, completer, config.DefaultConfig(), "",
		Request{ID: "none", Action: ActionRequestMore},
		Request{ID: "more", Action: ActionRequestMore, Words: 2},
	)

	resp := decode[DictionaryResponse](t, dec)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "missing words", resp.Error)

	resp = decode[DictionaryResponse](t, dec)
	assert.Equal(t, "more", resp.ID)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.AvailableChunks)
	assert.Equal(t, 4, resp.MaxWords)

	require.Eventually(t, func() bool {
		return completer.Contains("delta")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRequestMoreWordsStatic(t *testing.T) {
	t.Parallel()

	dec := serve(t, newTestCompleter(), config.DefaultConfig(), "",
		Request{ID: "more", Action: ActionRequestMore, Words: 10},
	)

	resp := decode[DictionaryResponse](t, dec)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "dictionary is not chunk backed", resp.Error)
}

func TestMatchKeepsWildcardAcrossReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[trie]\nwildcard = \"*\"\n"), 0o644))

	cfg := config.DefaultConfig()
	cfg.Server.ReloadEvery = 1

	dec := serve(t, newTestCompleter(suggest.WithWildcard('?')), cfg, path,
		Request{ID: "question", Action: ActionMatch, Prefix: "wor?"},
		Request{ID: "star", Action: ActionMatch, Prefix: "wor*"},
	)

	resp := decode[CompletionResponse](t, dec)
	assert.Equal(t, "question", resp.ID)
	assert.Equal(t, []CompletionSuggestion{{Word: "work", Rank: 1}, {Word: "word", Rank: 2}}, resp.Suggestions.Items())

	errResp := decode[CompletionError](t, dec)
	assert.Equal(t, "star", errResp.ID)
	assert.Equal(t, CodeBadRequest, errResp.Code)
}
