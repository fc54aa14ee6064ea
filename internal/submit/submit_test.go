package submit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pestle/internal/roster"
)

func TestAssemble_FieldOrder(t *testing.T) {
	req, err := Assemble(
		"",
		[]string{"name", "number"}, map[string]string{"name": "Dove Pharmacy Ltd", "number": "01234567"},
		[]string{"name", "email"}, map[string]string{"name": "Jane Doe", "email": "jane@dove.example"},
		[]string{"AB123", "CDE45"},
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, EventNewApplication, req.Type)
	assert.NotEqual(t, uuid.Nil, req.SubmissionID)
	assert.Equal(t, []Field{
		{Key: "name", Value: "Dove Pharmacy Ltd"},
		{Key: "number", Value: "01234567"},
		{Key: "name", Value: "Jane Doe"},
		{Key: "email", Value: "jane@dove.example"},
		{Key: "ods", Value: "AB123"},
		{Key: "ods", Value: "CDE45"},
	}, req.Fields)
}

func TestAssemble_UpdateCarriesID(t *testing.T) {
	req, err := Assemble("rec-42", nil, nil, nil, nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, EventUpdateApplication, req.Type)
	assert.Equal(t, []Field{{Key: "id", Value: "rec-42"}}, req.Fields)
}

func TestAssemble_PharmacistsEmbeddedAsJSON(t *testing.T) {
	recs := []roster.Record{
		{GPHC: "1234567", Name: "Jane Doe"},
		{GPHC: "7654321", Name: "John Smith"},
	}

	req, err := Assemble("", nil, nil, nil, nil, nil, recs)
	require.NoError(t, err)

	require.Len(t, req.Fields, 1)
	assert.Equal(t, "pharmacists", req.Fields[0].Key)

	var got []roster.Record
	require.NoError(t, json.Unmarshal([]byte(req.Fields[0].Value), &got))
	assert.Equal(t, recs, got)
}

func TestAssemble_EmptyRosterOmitted(t *testing.T) {
	req, err := Assemble("", nil, nil, nil, nil, []string{"AB123"}, nil)
	require.NoError(t, err)

	assert.Equal(t, []Field{{Key: "ods", Value: "AB123"}}, req.Fields)
}

func TestHTTPSubmitter_Success(t *testing.T) {
	var gotType EventType
	var gotKeys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		for k := range r.MultipartForm.Value {
			gotKeys = append(gotKeys, k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reply":["registered"]}`))
	}))
	defer srv.Close()

	req, err := Assemble("", []string{"name"}, map[string]string{"name": "Dove"}, nil, nil, []string{"AB123"}, nil)
	require.NoError(t, err)
	gotType = req.Type

	res := NewHTTPSubmitter(srv.URL, time.Second).Submit(context.Background(), req)

	assert.Empty(t, res.Err)
	assert.Equal(t, []string{"registered"}, res.Reply)
	assert.Equal(t, EventNewApplication, gotType)
	assert.ElementsMatch(t, []string{"name", "ods"}, gotKeys)
}

func TestHTTPSubmitter_EmptyReplyIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	req, err := Assemble("", nil, nil, nil, nil, []string{"AB123"}, nil)
	require.NoError(t, err)

	res := NewHTTPSubmitter(srv.URL, time.Second).Submit(context.Background(), req)

	assert.Equal(t, "Submission failed. Please try again.", res.Err)
	assert.Empty(t, res.Reply)
}

func TestHTTPSubmitter_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"err":"Company number not recognised"}`))
	}))
	defer srv.Close()

	req, err := Assemble("", nil, nil, nil, nil, []string{"AB123"}, nil)
	require.NoError(t, err)

	res := NewHTTPSubmitter(srv.URL, time.Second).Submit(context.Background(), req)

	assert.Equal(t, "Company number not recognised", res.Err)
	assert.Empty(t, res.Reply)
}

func TestHTTPSubmitter_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	req, err := Assemble("", nil, nil, nil, nil, []string{"AB123"}, nil)
	require.NoError(t, err)

	res := NewHTTPSubmitter(srv.URL, time.Second).Submit(context.Background(), req)

	assert.Equal(t, "Submission failed. Please check your connection and try again.", res.Err)
}

func TestStubSubmitter_Records(t *testing.T) {
	stub := &StubSubmitter{Result: Result{Reply: []string{"ok"}}}

	req, err := Assemble("", nil, nil, nil, nil, []string{"AB123"}, nil)
	require.NoError(t, err)

	res := stub.Submit(context.Background(), req)

	assert.Equal(t, []string{"ok"}, res.Reply)
	require.Len(t, stub.Requests, 1)
	assert.Equal(t, req.SubmissionID, stub.Requests[0].SubmissionID)
}
