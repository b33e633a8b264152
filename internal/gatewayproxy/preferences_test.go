package gatewayproxy_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archrouter/gateway/internal/catalog"
	"github.com/archrouter/gateway/internal/gatewayproxy"
)

func TestGetPreferencesListsAllProviders(t *testing.T) {
	cat := catalog.New([]catalog.Provider{
		{Name: "code-gen", Model: "claude-3-7-sonnet", Usage: "coding tasks"},
	})
	h := &gatewayproxy.Handler{Catalog: cat}

	req := httptest.NewRequest(http.MethodGet, "/v1/router/preferences", nil)
	rec := httptest.NewRecorder()
	h.GetPreferences(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var records []catalog.PreferenceRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "coding tasks", records[0].Usage)
}

func TestUpdatePreferencesRejectsUnknownProvider(t *testing.T) {
	cat := catalog.New([]catalog.Provider{{Name: "chat", Model: "gpt-4o"}})
	h := &gatewayproxy.Handler{Catalog: cat}

	body, _ := json.Marshal([]catalog.PreferenceUpdate{{Name: "does-not-exist", Usage: "x"}})
	req := httptest.NewRequest(http.MethodPut, "/v1/router/preferences", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.UpdatePreferences(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePreferencesAppliesAndReturnsUpdated(t *testing.T) {
	cat := catalog.New([]catalog.Provider{{Name: "chat", Model: "gpt-4o", Usage: "old usage"}})
	h := &gatewayproxy.Handler{Catalog: cat}

	body, _ := json.Marshal([]catalog.PreferenceUpdate{{Name: "chat", Usage: "new usage"}})
	req := httptest.NewRequest(http.MethodPut, "/v1/router/preferences", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.UpdatePreferences(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		UpdatedModels []catalog.PreferenceRecord `json:"updated_models"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.UpdatedModels, 1)
	assert.Equal(t, "new usage", resp.UpdatedModels[0].Usage)
}
