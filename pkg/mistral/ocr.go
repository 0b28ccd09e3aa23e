package mistral

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// DataURI encodes bytes as a base64 data URI.
func DataURI(mime string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}

// OCR runs the document OCR endpoint and returns the markdown of all pages.
func (c *Client) OCR(ctx context.Context, model, mime string, data []byte) (string, error) {
	document := map[string]interface{}{
		"type":         "document_url",
		"document_url": DataURI(mime, data),
	}
	if strings.HasPrefix(mime, "image/") {
		document = map[string]interface{}{
			"type":      "image_url",
			"image_url": DataURI(mime, data),
		}
	}
	raw, err := c.do(ctx, http.MethodPost, "/v1/ocr", map[string]interface{}{
		"model":    model,
		"document": document,
	})
	if err != nil {
		return "", err
	}

	var pages []string
	gjson.GetBytes(raw, "pages.#.markdown").ForEach(func(_, page gjson.Result) bool {
		if text := strings.TrimSpace(page.String()); text != "" {
			pages = append(pages, text)
		}
		return true
	})
	return strings.Join(pages, "\n\n"), nil
}

// DescribeImage asks a vision model for the text visible in an image.
func (c *Client) DescribeImage(ctx context.Context, model, prompt, mime string, data []byte) (string, error) {
	body := map[string]interface{}{
		"model": model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "text", "text": prompt},
					{"type": "image_url", "image_url": DataURI(mime, data)},
				},
			},
		},
	}
	raw, err := c.do(ctx, http.MethodPost, "/v1/chat/completions", body)
	if err != nil {
		return "", err
	}
	return contentText(gjson.GetBytes(raw, "choices.0.message.content")), nil
}
