package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"rssreader/internal/adapter/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
<channel>
<title>Top Stories</title>
<item>
<title>First</title>
<link>http://x/1</link>
<media:thumbnail url="http://img/small.jpg" width="144"/>
<media:thumbnail url="http://img/large.jpg" width="992"/>
<pubDate>Tue, 19 Sep 2017 10:03:00 -0400</pubDate>
<description>one</description>
</item>
<item><title>Second</title><pubDate>yesterday</pubDate></item>
</channel>
</rss>`

func writeFeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("test")
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeOutput(t *testing.T, out string) []map[string]any {
	t.Helper()
	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	return items
}

func TestDecode_LenientFile(t *testing.T) {
	path := writeFeed(t, sampleFeed)

	out, err := execute(t, "decode", path, "--lenient-dates")

	require.NoError(t, err)
	items := decodeOutput(t, out)
	require.Len(t, items, 2)
	assert.Equal(t, "First", items[0]["title"])
	assert.Equal(t, "http://img/large.jpg", items[0]["image"])
	assert.Equal(t, "2017-09-19T14:03:00Z", items[0]["published_at"])
	assert.Nil(t, items[1]["published_at"])
}

func TestDecode_StrictDatesFail(t *testing.T) {
	path := writeFeed(t, sampleFeed)

	_, err := execute(t, "decode", path)

	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrMalformedDate))
}

func TestDecode_ThumbnailWidth(t *testing.T) {
	path := writeFeed(t, sampleFeed)

	out, err := execute(t, "decode", path, "--lenient-dates", "--thumbnail-width", "144")

	require.NoError(t, err)
	assert.Equal(t, "http://img/small.jpg", decodeOutput(t, out)[0]["image"])
}

func TestDecode_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(`<rss><channel><item><title>Remote</title></item></channel></rss>`))
	}))
	defer srv.Close()

	out, err := execute(t, "decode", srv.URL)

	require.NoError(t, err)
	items := decodeOutput(t, out)
	require.Len(t, items, 1)
	assert.Equal(t, "Remote", items[0]["title"])
}

func TestDecode_MissingFile(t *testing.T) {
	_, err := execute(t, "decode", filepath.Join(t.TempDir(), "absent.xml"))
	require.Error(t, err)
}

func TestDecode_RequiresOneArg(t *testing.T) {
	_, err := execute(t, "decode")
	require.Error(t, err)
}

func TestServe_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"app": {"feed_url": "nope"}}`), 0o644))

	_, err := execute(t, "serve", "--config", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestServe_MissingConfig(t *testing.T) {
	_, err := execute(t, "serve", "--config", filepath.Join(t.TempDir(), "none.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not load config")
}
