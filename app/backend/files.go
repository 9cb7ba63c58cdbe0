package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Folder names a storage bucket on the document storage service.
type Folder string

const (
	FolderEstateImages    Folder = "estate_images"
	FolderEstateDocuments Folder = "estate_documents"
	FolderUserDocuments   Folder = "user_documents"
)

func (f Folder) entity() string {
	if f == FolderUserDocuments {
		return "users"
	}
	return "estates"
}

func filesPath(f Folder, id int64) string {
	return fmt.Sprintf("/api/files/%s/%d/%s", f.entity(), id, f)
}

// UploadFiles stores files for an entity and returns their public URLs.
func (c *Client) UploadFiles(ctx context.Context, folder Folder, id int64, files []File) ([]string, error) {
	var out struct {
		URLs []string `json:"urls"`
	}
	if err := c.doMultipart(ctx, filesPath(folder, id), nil, "files", files, &out); err != nil {
		return nil, err
	}
	return out.URLs, nil
}

func (c *Client) DeleteFile(ctx context.Context, folder Folder, id int64, fileURL string) error {
	return c.doJSON(ctx, http.MethodDelete, filesPath(folder, id), url.Values{"url": {fileURL}}, nil, nil)
}
