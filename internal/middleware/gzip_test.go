package middleware

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// echoItem отвечает JSON-объектом с полученной позицией корзины.
func echoItem(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var item struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", "999")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"cart": map[string]any{"items": []any{item}}})
}

func gzipBytes(t *testing.T, s string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(s)); err != nil {
		t.Fatalf("write gzip: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return &buf
}

func TestGzipMiddleware(t *testing.T) {
	const item = `{"product_id":5,"quantity":2}`

	tests := []struct {
		name            string
		compressBody    bool
		acceptEncoding  string
		wantEncoding    string
		wantBodyContain string
	}{
		{
			name:            "plain request, gzip response",
			acceptEncoding:  "gzip",
			wantEncoding:    "gzip",
			wantBodyContain: `"product_id":5`,
		},
		{
			name:            "gzip among other encodings",
			acceptEncoding:  "br, gzip;q=0.8",
			wantEncoding:    "gzip",
			wantBodyContain: `"quantity":2`,
		},
		{
			name:            "plain request, plain response",
			acceptEncoding:  "",
			wantEncoding:    "",
			wantBodyContain: `"product_id":5`,
		},
		{
			name:            "gzip request, plain response",
			compressBody:    true,
			acceptEncoding:  "identity",
			wantEncoding:    "",
			wantBodyContain: `"product_id":5`,
		},
		{
			name:            "gzip request, gzip response",
			compressBody:    true,
			acceptEncoding:  "gzip",
			wantEncoding:    "gzip",
			wantBodyContain: `"quantity":2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader = strings.NewReader(item)
			if tt.compressBody {
				body = gzipBytes(t, item)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/cart/items", body)
			req.Header.Set("Content-Type", "application/json")
			if tt.compressBody {
				req.Header.Set("Content-Encoding", "gzip")
			}
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}

			rec := httptest.NewRecorder()
			GzipMiddleware(http.HandlerFunc(echoItem)).ServeHTTP(rec, req)

			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != http.StatusCreated {
				t.Fatalf("status: got %d want %d", res.StatusCode, http.StatusCreated)
			}
			if ce := res.Header.Get("Content-Encoding"); ce != tt.wantEncoding {
				t.Fatalf("content-encoding: got %q want %q", ce, tt.wantEncoding)
			}

			reader := io.Reader(res.Body)
			if tt.wantEncoding == "gzip" {
				if cl := res.Header.Get("Content-Length"); cl != "" {
					t.Fatalf("content-length must be dropped for gzip, got %q", cl)
				}
				gr, err := gzip.NewReader(res.Body)
				if err != nil {
					t.Fatalf("new gzip reader: %v", err)
				}
				defer gr.Close()
				reader = gr
			}

			got, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			if !strings.Contains(string(got), tt.wantBodyContain) {
				t.Fatalf("body %q does not contain %q", got, tt.wantBodyContain)
			}
		})
	}
}

func TestGzipMiddleware_BrokenRequestBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader("not gzip"))
	req.Header.Set("Content-Encoding", "gzip")

	w := httptest.NewRecorder()
	h := GzipMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	}))
	h.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusBadRequest)
	}
}
