package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/wikismart-edu-backend/apperr"
	"github.com/vnkhanh/wikismart-edu-backend/config"
	"github.com/vnkhanh/wikismart-edu-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// fakeGenerator records every request and answers with a fixed reply.
type fakeGenerator struct {
	name  string
	reply string
	err   error

	mu       sync.Mutex
	requests []GenerationRequest
}

func (f *fakeGenerator) Name() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}

func (f *fakeGenerator) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeGenerator) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return ""
	}
	return f.requests[len(f.requests)-1].Prompt
}

// fakeSource serves documents by title; locators map to titles through
// ExtractTitleFromURL.
type fakeSource struct {
	docs map[string]*models.NormalizedDocument
}

func newFakeSource(docs ...*models.NormalizedDocument) *fakeSource {
	s := &fakeSource{docs: map[string]*models.NormalizedDocument{}}
	for _, d := range docs {
		s.docs[d.Title] = d
	}
	return s
}

func (s *fakeSource) FetchByLocator(ctx context.Context, locator string) (*models.NormalizedDocument, error) {
	title, err := ExtractTitleFromURL(locator)
	if err != nil {
		return nil, err
	}
	return s.FetchByTitle(ctx, title)
}

func (s *fakeSource) FetchByTitle(ctx context.Context, title string) (*models.NormalizedDocument, error) {
	doc, ok := s.docs[title]
	if !ok {
		return nil, apperr.NotFound("article not found")
	}
	return doc, nil
}

func wikiDoc(title, body string) *models.NormalizedDocument {
	url := "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(title, " ", "_")
	return NewDocument(title, &url, SplitSections(body))
}

type fakeArchive struct {
	stored map[string][]byte
	err    error
}

func (a *fakeArchive) Store(fileID, ext, contentType string, data []byte) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	if a.stored == nil {
		a.stored = map[string][]byte{}
	}
	a.stored[fileID+ext] = data
	return "https://storage.example/documents/" + fileID + ext, nil
}
