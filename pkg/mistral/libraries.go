package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

type Library struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	NbDocuments    int    `json:"nb_documents"`
	TotalSize      int64  `json:"total_size"`
	ChunkSize      int    `json:"chunk_size"`
	CreatedAt      string `json:"created_at"`
	GeneratedName  string `json:"generated_name"`
	OwnerType      string `json:"owner_type"`
	EmbeddingModel string `json:"emb_model"`
}

type LibraryDocument struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Size             int64  `json:"size"`
	ProcessingStatus string `json:"processing_status"`
}

func (c *Client) CreateLibrary(ctx context.Context, name, description string) (*Library, error) {
	var lib Library
	body := map[string]string{"name": name, "description": description}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/libraries", body, &lib); err != nil {
		return nil, err
	}
	return &lib, nil
}

func (c *Client) GetLibrary(ctx context.Context, libraryID string) (*Library, error) {
	var lib Library
	if err := c.doJSON(ctx, http.MethodGet, "/v1/libraries/"+libraryID, nil, &lib); err != nil {
		return nil, err
	}
	return &lib, nil
}

// UploadDocument adds a file to a library as multipart form data.
func (c *Client) UploadDocument(ctx context.Context, libraryID, filename string, r io.Reader) (*LibraryDocument, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/libraries/"+libraryID+"/documents", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var doc LibraryDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &doc, nil
}
