package igdb_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JoaoGSDC/streamline-app/internal/igdb"
	utils "github.com/JoaoGSDC/streamline-app/pkg/utils"

	"github.com/labstack/echo/v4"
)

type fakeCatalog struct {
	searchErr  error
	detailsErr error
	lastLimit  int
}

func (f *fakeCatalog) Search(_ context.Context, _ string, limit int) ([]igdb.Game, error) {
	f.lastLimit = limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return []igdb.Game{{ID: 1, Name: "Hades"}}, nil
}

func (f *fakeCatalog) Details(_ context.Context, id int64) (*igdb.Details, error) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	return &igdb.Details{ID: id, Title: "Hades"}, nil
}

func newProxy(catalog igdb.Catalog) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = utils.CustomHTTPErrorHandler
	h := igdb.NewHandler(catalog)
	e.GET("/api/igdb/search", h.Search)
	e.GET("/api/igdb/games/:id", h.GetGame)
	return e
}

func do(e *echo.Echo, target string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var body map[string]json.RawMessage
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestSearchHandler(t *testing.T) {
	catalog := &fakeCatalog{}
	e := newProxy(catalog)

	rec, body := do(e, "/api/igdb/search?q=hades&limit=500")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if catalog.lastLimit != 50 {
		t.Fatalf("limit not clamped: %d", catalog.lastLimit)
	}
	if _, ok := body["results"]; !ok {
		t.Fatalf("missing results: %s", rec.Body.String())
	}

	rec, _ = do(e, "/api/igdb/search?q=%20")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty q, got %d", rec.Code)
	}
}

func TestSearchHandlerUpstreamFailureIsEmpty(t *testing.T) {
	e := newProxy(&fakeCatalog{searchErr: errors.New("boom")})
	rec, body := do(e, "/api/igdb/search?q=hades")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if string(body["results"]) != "[]" {
		t.Fatalf("expected empty results, got %s", body["results"])
	}
}

func TestGetGameHandler(t *testing.T) {
	cases := []struct {
		name    string
		catalog *fakeCatalog
		target  string
		code    int
	}{
		{"ok", &fakeCatalog{}, "/api/igdb/games/1942", http.StatusOK},
		{"bad id", &fakeCatalog{}, "/api/igdb/games/abc", http.StatusBadRequest},
		{"not found", &fakeCatalog{detailsErr: igdb.ErrNotFound}, "/api/igdb/games/1", http.StatusNotFound},
		{"upstream", &fakeCatalog{detailsErr: errors.New("timeout")}, "/api/igdb/games/1", http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := do(newProxy(tc.catalog), tc.target)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d (%s)", tc.code, rec.Code, rec.Body.String())
			}
			if tc.code == http.StatusOK {
				if _, ok := body["game"]; !ok {
					t.Fatalf("missing game: %s", rec.Body.String())
				}
			} else if _, ok := body["error"]; !ok {
				t.Fatalf("missing error envelope: %s", rec.Body.String())
			}
		})
	}
}
