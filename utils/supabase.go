package utils

import (
	"bytes"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// UploadArchive stores uploaded source documents in Supabase Storage so an
// article ingested from a file keeps a fetchable locator.
type UploadArchive struct {
	client  *storage.Client
	baseURL string
	bucket  string
}

// NewUploadArchive returns nil when Supabase is not configured; a nil
// archive is valid and simply skips archival.
func NewUploadArchive(supabaseURL, supabaseKey, bucket string) *UploadArchive {
	if supabaseURL == "" || supabaseKey == "" {
		return nil
	}
	base := strings.TrimRight(supabaseURL, "/")
	return &UploadArchive{
		client:  storage.NewClient(base+"/storage/v1", supabaseKey, nil),
		baseURL: base,
		bucket:  bucket,
	}
}

// Store uploads data under documents/<fileID><ext> and returns its public URL.
func (a *UploadArchive) Store(fileID, ext, contentType string, data []byte) (string, error) {
	if a == nil {
		return "", nil
	}

	objectPath := fmt.Sprintf("documents/%s%s", fileID, ext)
	options := storage.FileOptions{ContentType: &contentType}

	if _, err := a.client.UploadFile(a.bucket, objectPath, bytes.NewReader(data), options); err != nil {
		return "", fmt.Errorf("upload to supabase: %w", err)
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", a.baseURL, a.bucket, objectPath), nil
}
