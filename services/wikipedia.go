package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
	"github.com/vnkhanh/wikismart-edu-backend/logging"
	"github.com/vnkhanh/wikismart-edu-backend/metrics"
	"github.com/vnkhanh/wikismart-edu-backend/models"
)

// ContentSource fetches and normalises articles.
type ContentSource interface {
	FetchByLocator(ctx context.Context, locator string) (*models.NormalizedDocument, error)
	FetchByTitle(ctx context.Context, title string) (*models.NormalizedDocument, error)
}

// WikipediaClient reads plain-text article extracts from the MediaWiki
// action API.
type WikipediaClient struct {
	apiURL    string
	userAgent string
	timeout   time.Duration
	http      *http.Client
}

func NewWikipediaClient(apiURL, userAgent string, timeout time.Duration) *WikipediaClient {
	return &WikipediaClient{
		apiURL:    apiURL,
		userAgent: userAgent,
		timeout:   timeout,
		http:      &http.Client{},
	}
}

// ExtractTitleFromURL derives a page title from an article URL such as
// https://en.wikipedia.org/wiki/Python_(programming_language).
func ExtractTitleFromURL(locator string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(locator))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperr.New(apperr.KindFetch, "invalid article URL")
	}

	// The page name is the last path segment; a trailing slash leaves it
	// empty rather than falling back to a parent segment such as "wiki".
	path := u.EscapedPath()
	slug := path[strings.LastIndex(path, "/")+1:]
	if slug == "" {
		return "", apperr.New(apperr.KindFetch, "article URL has no page name")
	}

	title, err := url.PathUnescape(slug)
	if err != nil {
		return "", apperr.Wrap(apperr.KindFetch, "article URL has a malformed page name", err)
	}
	title = strings.TrimSpace(strings.ReplaceAll(title, "_", " "))
	if title == "" {
		return "", apperr.New(apperr.KindFetch, "article URL has no page name")
	}
	return title, nil
}

func (w *WikipediaClient) FetchByLocator(ctx context.Context, locator string) (*models.NormalizedDocument, error) {
	title, err := ExtractTitleFromURL(locator)
	if err != nil {
		return nil, err
	}
	return w.FetchByTitle(ctx, title)
}

type wikiPage struct {
	Title   string `json:"title"`
	Extract string `json:"extract"`
	FullURL string `json:"fullurl"`
	Missing bool   `json:"missing"`
	Invalid bool   `json:"invalid"`
}

type wikiQueryResponse struct {
	Query struct {
		Pages []wikiPage `json:"pages"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

func (w *WikipediaClient) FetchByTitle(ctx context.Context, title string) (*models.NormalizedDocument, error) {
	start := time.Now()
	doc, err := w.fetchByTitle(ctx, title)
	metrics.RecordArticleFetch(time.Since(start), err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("title", title).Msg("article fetch failed")
	}
	return doc, err
}

func (w *WikipediaClient) fetchByTitle(ctx context.Context, title string) (*models.NormalizedDocument, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperr.New(apperr.KindFetch, "empty article title")
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("formatversion", "2")
	q.Set("prop", "extracts|info")
	q.Set("explaintext", "1")
	q.Set("exsectionformat", "wikitext")
	q.Set("inprop", "url")
	q.Set("redirects", "1")
	q.Set("titles", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.apiURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindFetch, "build wikipedia request", err)
	}
	req.Header.Set("User-Agent", w.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.Wrap(apperr.KindFetch, "wikipedia request timed out", err)
		}
		return nil, apperr.Wrap(apperr.KindFetch, "wikipedia request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperr.Wrap(apperr.KindFetch, "wikipedia returned an error",
			fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body)))
	}

	var parsed wikiQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, apperr.Wrap(apperr.KindFetch, "decode wikipedia response", err)
	}
	if parsed.Error != nil {
		return nil, apperr.Wrap(apperr.KindFetch, "wikipedia returned an error",
			fmt.Errorf("%s: %s", parsed.Error.Code, parsed.Error.Info))
	}
	if len(parsed.Query.Pages) == 0 {
		return nil, apperr.NotFound("article not found")
	}

	page := parsed.Query.Pages[0]
	if page.Missing || page.Invalid {
		return nil, apperr.NotFound("article not found")
	}

	var sourceURL *string
	if page.FullURL != "" {
		u := page.FullURL
		sourceURL = &u
	}
	return NewDocument(page.Title, sourceURL, SplitSections(page.Extract)), nil
}
