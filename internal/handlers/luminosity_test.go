package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"lumen_bridge/internal/models"
)

func TestLuminosity_EmptyRegister_404(t *testing.T) {
	s, _, _ := newMockService()
	r := newTestRouter(s)

	w := doJSON(t, r, http.MethodGet, "/luminosidade/", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if got := w.Body.String(); got != `{"erro":"Nenhuma leitura"}` {
		t.Fatalf("unexpected body: %s", got)
	}
}

func TestLuminosity_PostThenGetLatest(t *testing.T) {
	s, _, reg := newMockService()
	r := newTestRouter(s)

	w := doJSON(t, r, http.MethodPost, "/luminosidade/", `{"valor":512,"modo":"auto"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("post status=%d body=%s", w.Code, w.Body.String())
	}
	if reg.lastAppend.Value == nil || *reg.lastAppend.Value != 512 || reg.lastAppend.Mode != "auto" {
		t.Fatalf("wrong Append params: %+v", reg.lastAppend)
	}

	doJSON(t, r, http.MethodPost, "/luminosidade/", `{"valor":300,"modo":"manual"}`)

	w = doJSON(t, r, http.MethodGet, "/luminosidade/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status=%d body=%s", w.Code, w.Body.String())
	}
	var rd models.SensorReading
	if err := json.Unmarshal(w.Body.Bytes(), &rd); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rd.Value != 300 || rd.Mode != "manual" {
		t.Fatalf("expected newest reading, got %+v", rd)
	}
}

func TestLuminosity_PostBadBody_400(t *testing.T) {
	s, _, _ := newMockService()
	r := newTestRouter(s)

	w := doJSON(t, r, http.MethodPost, "/luminosidade/", `{"valor":"alto","modo":"auto"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp errorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Erro != errInvalidData {
		t.Fatalf("unexpected erro: %+v", resp)
	}
	if _, ok := resp.Campos["valor"]; !ok {
		t.Fatalf("expected campo valor, got %+v", resp.Campos)
	}
}

func TestLuminosity_PostStorageFailure_500(t *testing.T) {
	s, _, reg := newMockService()
	reg.appendErr = errors.New("io error")
	r := newTestRouter(s)

	w := doJSON(t, r, http.MethodPost, "/luminosidade/", `{"valor":1,"modo":"auto"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestLuminosity_History(t *testing.T) {
	s, _, reg := newMockService()
	r := newTestRouter(s)
	for _, v := range []string{`{"valor":1,"modo":"auto"}`, `{"valor":2,"modo":"auto"}`, `{"valor":3,"modo":"auto"}`} {
		doJSON(t, r, http.MethodPost, "/luminosidade/", v)
	}

	w := doJSON(t, r, http.MethodGet, "/luminosidade/historico/?limite=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if reg.lastLimit != 2 {
		t.Fatalf("limit passed=%d", reg.lastLimit)
	}
	var resp ReadingListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 2 || resp.Leituras[0].Value != 3 || resp.Leituras[1].Value != 2 {
		t.Fatalf("unexpected history: %+v", resp)
	}

	w = doJSON(t, r, http.MethodGet, "/luminosidade/historico/", "")
	if w.Code != http.StatusOK || reg.lastLimit != 0 {
		t.Fatalf("default limit: status=%d limit=%d", w.Code, reg.lastLimit)
	}
}

func TestLuminosity_HistoryBadLimit_400(t *testing.T) {
	for _, q := range []string{"abc", "0", "-5"} {
		t.Run(q, func(t *testing.T) {
			s, _, _ := newMockService()
			r := newTestRouter(s)

			w := doJSON(t, r, http.MethodGet, "/luminosidade/historico/?limite="+q, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			var resp errorResponse
			_ = json.Unmarshal(w.Body.Bytes(), &resp)
			if _, ok := resp.Campos["limite"]; !ok {
				t.Fatalf("expected campo limite, got %+v", resp.Campos)
			}
		})
	}
}
