package anwalt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	SearchTimeout  = 10 * time.Second
	HandoffTimeout = 30 * time.Second
)

var ErrInvalidLanguage = errors.New("invalid language code, must be 'de' or 'en'")

// Lawyer is a directory profile as returned by the lawyer platform.
type Lawyer map[string]interface{}

func (l Lawyer) ID() int {
	switch v := l["id"].(type) {
	case float64:
		return int(v)
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	case int:
		return v
	}
	return 0
}

func (l Lawyer) FullName() string {
	name, _ := l["full_name"].(string)
	return name
}

type SearchParams struct {
	Language  string
	LegalArea string
	Latitude  *float64
	Longitude *float64
	RadiusKm  float64
}

type UserLocation struct {
	City string   `json:"city,omitempty"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
}

type HandoffRequest struct {
	UserID        string        `json:"user_id"`
	SummaryID     string        `json:"summary_id"`
	SummaryPdfURL string        `json:"summary_pdf_url"`
	LawyerID      int           `json:"lawyer_id"`
	LegalArea     string        `json:"legal_area"`
	CaseStrength  string        `json:"case_strength"`
	Urgency       string        `json:"urgency"`
	UserLocation  *UserLocation `json:"user_location,omitempty"`
}

type HandoffResponse struct {
	CaseID string `json:"case_id"`
}

// StatusError carries a non-2xx answer from the lawyer platform.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("anwalt api returned %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	apiKey  string
	search  *http.Client
	handoff *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		search:  &http.Client{Timeout: SearchTimeout},
		handoff: &http.Client{Timeout: HandoffTimeout},
	}
}

func ValidLanguage(lang string) bool {
	return lang == "de" || lang == "en"
}

// Search queries the public directory at /anwalt/profiles.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Lawyer, error) {
	if !ValidLanguage(params.Language) {
		return nil, ErrInvalidLanguage
	}

	q := url.Values{}
	q.Set("lang", params.Language)
	if params.LegalArea != "" {
		q.Set("legal_area", params.LegalArea)
	}
	if params.Latitude != nil {
		q.Set("lat", strconv.FormatFloat(*params.Latitude, 'f', -1, 64))
	}
	if params.Longitude != nil {
		q.Set("lng", strconv.FormatFloat(*params.Longitude, 'f', -1, 64))
	}
	if params.RadiusKm > 0 {
		q.Set("radius", strconv.FormatFloat(params.RadiusKm, 'f', -1, 64))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/anwalt/profiles?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	var lawyers []Lawyer
	if err := c.exec(c.search, req, &lawyers); err != nil {
		return nil, fmt.Errorf("failed to search lawyers: %w", err)
	}
	return lawyers, nil
}

// FindLawyer scans the German directory for the given id. The platform has no lookup by id.
func (c *Client) FindLawyer(ctx context.Context, lawyerID int) (Lawyer, error) {
	lawyers, err := c.Search(ctx, SearchParams{Language: "de"})
	if err != nil {
		return nil, err
	}
	for _, l := range lawyers {
		if l.ID() == lawyerID {
			return l, nil
		}
	}
	return nil, nil
}

// Handoff creates a case on the lawyer platform and returns its id.
func (c *Client) Handoff(ctx context.Context, in HandoffRequest) (*HandoffResponse, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/cases/handoff", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	var out HandoffResponse
	if err := c.exec(c.handoff, req, &out); err != nil {
		return nil, fmt.Errorf("failed to hand off case to lawyer: %w", err)
	}
	return &out, nil
}

func (c *Client) exec(hc *http.Client, req *http.Request, out interface{}) error {
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
