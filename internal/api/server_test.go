// File path: internal/api/server_test.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/famnet/famapi/internal/store"
	"github.com/famnet/famapi/internal/telegram"
)

type fakeBot struct {
	response  string
	err       error
	connected bool
	queries   []string
}

func (f *fakeBot) Lookup(ctx context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeBot) Connected() bool { return f.connected }

type fakeStore struct {
	records map[string]*store.Record
	saveErr error
	saved   []*store.Record
	nextID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*store.Record)}
}

func (f *fakeStore) Save(ctx context.Context, rec *store.Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if existing, ok := f.records[rec.FamID]; ok {
		rec.ID = existing.ID
	} else {
		f.nextID++
		rec.ID = f.nextID
	}
	clone := *rec
	f.records[rec.FamID] = &clone
	f.saved = append(f.saved, &clone)
	return nil
}

func (f *fakeStore) GetByFamID(ctx context.Context, famID string) (*store.Record, error) {
	rec, ok := f.records[famID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec, nil
}

func (f *fakeStore) List(ctx context.Context, limit int) ([]store.Record, error) {
	out := make([]store.Record, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, *rec)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) Count(ctx context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

func doRequest(t *testing.T, srv *Server, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr, body
}

func TestLookupMissingParameter(t *testing.T) {
	srv := NewServer(newFakeStore(), &fakeBot{}, nil)

	rr, body := doRequest(t, srv, "/api")
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, body["error"], "missing fam parameter")
}

func TestLookupSuccessPersistsRecord(t *testing.T) {
	bot := &fakeBot{response: "FAM ID : u123\nNAME : Alice\nPHONE : +91900000000\nTYPE : Contact"}
	st := newFakeStore()
	srv := NewServer(st, bot, nil)

	rr, body := doRequest(t, srv, "/api?fam=u123")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, true, body["success"])
	require.Equal(t, "u123", body["query"])

	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "u123", data["fam_id"])
	require.Equal(t, "Alice", data["name"])
	require.Equal(t, "contact", data["type"])

	require.Len(t, st.saved, 1)
	require.Equal(t, "u123", st.saved[0].FamID)
	require.NotNil(t, st.saved[0].Phone)
	require.Equal(t, "+91900000000", *st.saved[0].Phone)
}

func TestLookupNoMarkersIs404(t *testing.T) {
	bot := &fakeBot{response: "sorry, nothing here"}
	st := newFakeStore()
	srv := NewServer(st, bot, nil)

	rr, body := doRequest(t, srv, "/api?fam=unknown@fam")
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, false, body["success"])
	require.Empty(t, st.saved)
}

func TestLookupTimeoutIs504(t *testing.T) {
	bot := &fakeBot{err: telegram.ErrLookupTimeout}
	srv := NewServer(newFakeStore(), bot, nil)

	rr, body := doRequest(t, srv, "/api?fam=slow@fam")
	require.Equal(t, http.StatusGatewayTimeout, rr.Code)
	require.Equal(t, false, body["success"])
}

func TestLookupSaveFailureStillAnswers(t *testing.T) {
	bot := &fakeBot{response: "FAM ID : u1"}
	st := newFakeStore()
	st.saveErr = context.DeadlineExceeded
	srv := NewServer(st, bot, nil)

	rr, body := doRequest(t, srv, "/api?fam=u1")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, true, body["success"])
}

func TestRecordEndpoint(t *testing.T) {
	st := newFakeStore()
	name := "Alice"
	require.NoError(t, st.Save(context.Background(), &store.Record{FamID: "u123", Name: &name, Type: "contact"}))
	srv := NewServer(st, &fakeBot{}, nil)

	rr, body := doRequest(t, srv, "/v1/records/u123")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "u123", body["fam_id"])

	rr, _ = doRequest(t, srv, "/v1/records/absent")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRecordsList(t *testing.T) {
	st := newFakeStore()
	require.NoError(t, st.Save(context.Background(), &store.Record{FamID: "a"}))
	require.NoError(t, st.Save(context.Background(), &store.Record{FamID: "b"}))
	srv := NewServer(st, &fakeBot{}, nil)

	rr, body := doRequest(t, srv, "/v1/records")
	require.Equal(t, http.StatusOK, rr.Code)
	require.EqualValues(t, 2, body["count"])
}

func TestRecordsWithoutStore(t *testing.T) {
	srv := NewServer(nil, &fakeBot{}, nil)

	rr, _ := doRequest(t, srv, "/v1/records")
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHealthStatuses(t *testing.T) {
	srv := NewServer(nil, nil, nil)
	rr, body := doRequest(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "not_initialized", body["telegram"])

	srv = NewServer(nil, &fakeBot{connected: false}, nil)
	_, body = doRequest(t, srv, "/health")
	require.Equal(t, "initialized", body["telegram"])

	srv = NewServer(nil, &fakeBot{connected: true}, nil)
	_, body = doRequest(t, srv, "/healthz")
	require.Equal(t, "connected", body["telegram"])
}

func TestIndexDocument(t *testing.T) {
	srv := NewServer(nil, nil, nil)
	rr, body := doRequest(t, srv, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "Telegram FAM API", body["message"])
}
