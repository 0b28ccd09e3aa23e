package anwalt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchBuildsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/anwalt/profiles", r.URL.Path)
		assert.Equal(t, "de", r.URL.Query().Get("lang"))
		assert.Equal(t, "Mietrecht", r.URL.Query().Get("legal_area"))
		assert.Equal(t, "52.52", r.URL.Query().Get("lat"))
		assert.Equal(t, "10", r.URL.Query().Get("radius"))
		_, _ = w.Write([]byte(`[{"id": 7, "full_name": "Dr. Weber", "languages": "de,en"}]`))
	}))
	defer srv.Close()

	lat := 52.52
	lawyers, err := NewClient(srv.URL, "").Search(context.Background(), SearchParams{
		Language: "de", LegalArea: "Mietrecht", Latitude: &lat, RadiusKm: 10,
	})
	require.NoError(t, err)
	require.Len(t, lawyers, 1)
	assert.Equal(t, 7, lawyers[0].ID())
	assert.Equal(t, "Dr. Weber", lawyers[0].FullName())
}

func TestSearchRejectsLanguage(t *testing.T) {
	_, err := NewClient("http://unused", "").Search(context.Background(), SearchParams{Language: "fr"})
	assert.ErrorIs(t, err, ErrInvalidLanguage)
}

func TestFindLawyerMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 1, "full_name": "A"}]`))
	}))
	defer srv.Close()

	l, err := NewClient(srv.URL, "").FindLawyer(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestHandoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/cases/handoff", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		var body HandoffRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 7, body.LawyerID)
		assert.Nil(t, body.UserLocation)
		_, _ = w.Write([]byte(`{"case_id": "case-42"}`))
	}))
	defer srv.Close()

	out, err := NewClient(srv.URL, "secret").Handoff(context.Background(), HandoffRequest{UserID: "u", SummaryID: "s", LawyerID: 7})
	require.NoError(t, err)
	assert.Equal(t, "case-42", out.CaseID)
}

func TestHandoffStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "lawyer busy", http.StatusConflict)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Handoff(context.Background(), HandoffRequest{})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusConflict, statusErr.StatusCode)
}
