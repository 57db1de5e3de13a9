package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
)

func TestExtractTitleFromURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"simple", "https://en.wikipedia.org/wiki/Machine_learning", "Machine learning", false},
		{"parentheses", "https://en.wikipedia.org/wiki/Python_(programming_language)", "Python (programming language)", false},
		{"percent encoded", "https://fr.wikipedia.org/wiki/%C3%89cole_normale", "École normale", false},
		{"trailing slash", "https://en.wikipedia.org/wiki/Go/", "", true},
		{"bare wiki path", "https://en.wikipedia.org/wiki/", "", true},
		{"double slash", "https://en.wikipedia.org/wiki//", "", true},
		{"underscores only", "https://en.wikipedia.org/wiki/___", "", true},
		{"no scheme", "en.wikipedia.org/wiki/Go", "", true},
		{"ftp scheme", "ftp://en.wikipedia.org/wiki/Go", "", true},
		{"no path", "https://en.wikipedia.org", "", true},
		{"garbage", "::::", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTitleFromURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperr.ErrFetch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newWikiServer(t *testing.T, handler http.HandlerFunc) *WikipediaClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewWikipediaClient(srv.URL, "wikismart-test/1.0", 2*time.Second)
}

func TestWikipediaClient_FetchByTitle(t *testing.T) {
	var gotQuery map[string]string
	var gotUA string
	client := newWikiServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"batchcomplete":true,"query":{"pages":[{"pageid":1,"title":"Machine learning",` +
			`"fullurl":"https://en.wikipedia.org/wiki/Machine_learning",` +
			`"extract":"ML is a field.[1]\n\n== History ==\nIt started early.\n=== Modern ===\nNow it is big."}]}}`))
	})

	doc, err := client.FetchByLocator(context.Background(), "https://en.wikipedia.org/wiki/Machine_learning")
	require.NoError(t, err)

	assert.Equal(t, "wikismart-test/1.0", gotUA)
	assert.Equal(t, "Machine learning", gotQuery["titles"])
	assert.Equal(t, "1", gotQuery["explaintext"])
	assert.Equal(t, "wikitext", gotQuery["exsectionformat"])

	assert.Equal(t, "Machine learning", doc.Title)
	require.NotNil(t, doc.SourceURL)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Machine_learning", *doc.SourceURL)
	assert.Equal(t, []string{"Introduction", "History", "Modern"}, doc.Sections.Names())
	assert.Equal(t, "ML is a field. It started early. Now it is big.", doc.Text)
}

func TestWikipediaClient_MissingPage(t *testing.T) {
	client := newWikiServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"pages":[{"title":"Nope","missing":true}]}}`))
	})

	_, err := client.FetchByTitle(context.Background(), "Nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestWikipediaClient_UpstreamError(t *testing.T) {
	client := newWikiServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.FetchByTitle(context.Background(), "Go")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrFetch)
}

func TestWikipediaClient_APIError(t *testing.T) {
	client := newWikiServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":"badvalue","info":"bad"}}`))
	})

	_, err := client.FetchByTitle(context.Background(), "Go")
	assert.ErrorIs(t, err, apperr.ErrFetch)
}

func TestWikipediaClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	client := NewWikipediaClient(srv.URL, "ua", 50*time.Millisecond)

	_, err := client.FetchByTitle(context.Background(), "Go")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrFetch)
}

func TestWikipediaClient_InvalidLocator(t *testing.T) {
	client := NewWikipediaClient("http://127.0.0.1:0", "ua", time.Second)

	_, err := client.FetchByLocator(context.Background(), "not a url")
	assert.ErrorIs(t, err, apperr.ErrFetch)
}

func TestWikipediaClient_EmptyPageNameNeverFetches(t *testing.T) {
	var hits atomic.Int32
	client := newWikiServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	for _, locator := range []string{"https://en.wikipedia.org/wiki/", "https://en.wikipedia.org/wiki//"} {
		_, err := client.FetchByLocator(context.Background(), locator)
		assert.ErrorIs(t, err, apperr.ErrFetch, locator)
	}
	assert.Zero(t, hits.Load())
}
