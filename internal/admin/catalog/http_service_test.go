package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/catalog-admin/internal/admin/catalog"
)

func TestHTTPServiceSearch(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/products", r.URL.Path)
		require.Equal(t, "0", r.URL.Query().Get("offset"))
		require.Equal(t, "10", r.URL.Query().Get("limit"))
		require.Equal(t, "shoe", r.URL.Query().Get("title"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 4, "title": "Shoe", "price": 20, "description": "Runner", "category": {"id": 2, "name": "Wear"}, "images": ["[\"http://x/1.png\"]"]},
			{"id": 5, "title": "Shoe Two", "price": 35.5, "description": "", "images": []}
		]`))
	}))
	t.Cleanup(ts.Close)

	svc, err := catalog.NewHTTPService(ts.URL+"/api/v1/products/", ts.Client())
	require.NoError(t, err)

	result, err := svc.Search(context.Background(), catalog.Query{Title: "shoe", Offset: 0, Limit: 10})
	require.NoError(t, err)
	require.Len(t, result.Products, 2)
	require.Nil(t, result.Total)

	first := result.Products[0]
	require.Equal(t, 4, first.ID)
	require.Equal(t, "Wear", first.CategoryName())
	require.Equal(t, []string{`["http://x/1.png"]`}, first.Images)
	require.Empty(t, first.CleanImage, "clean image is derived by the caller")
	require.Equal(t, 35.5, result.Products[1].Price)
	require.Equal(t, "N/A", result.Products[1].CategoryName())
}

func TestHTTPServiceSearchOmitsEmptyTitle(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasTitle := r.URL.Query()["title"]
		require.False(t, hasTitle)
		require.Equal(t, "20", r.URL.Query().Get("offset"))
		w.Header().Set("X-Total-Count", "42")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(ts.Close)

	svc, err := catalog.NewHTTPService(ts.URL, ts.Client())
	require.NoError(t, err)

	result, err := svc.Search(context.Background(), catalog.Query{Offset: 20, Limit: 10})
	require.NoError(t, err)
	require.Empty(t, result.Products)
	require.NotNil(t, result.Total)
	require.Equal(t, 42, *result.Total)
}

func TestHTTPServiceSearchFailures(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message": "upstream down"}`))
	}))
	t.Cleanup(ts.Close)

	svc, err := catalog.NewHTTPService(ts.URL, ts.Client())
	require.NoError(t, err)

	_, err = svc.Search(context.Background(), catalog.Query{Limit: 10})
	require.Error(t, err)
	require.ErrorIs(t, err, catalog.ErrNetwork)

	var catErr *catalog.Error
	require.True(t, errors.As(err, &catErr))
	require.Equal(t, http.StatusBadGateway, catErr.StatusCode)
	require.Equal(t, "upstream down", catErr.Body)

	unreachable, err := catalog.NewHTTPService("http://127.0.0.1:1/products", nil)
	require.NoError(t, err)
	_, err = unreachable.Search(context.Background(), catalog.Query{Limit: 10})
	require.ErrorIs(t, err, catalog.ErrNetwork)
}

func TestHTTPServiceCreate(t *testing.T) {
	t.Parallel()

	var received map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/products", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		defer r.Body.Close()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 99}`))
	}))
	t.Cleanup(ts.Close)

	svc, err := catalog.NewHTTPService(ts.URL+"/products", ts.Client())
	require.NoError(t, err)

	price := 12.5
	category := 3
	err = svc.Create(context.Background(), catalog.Payload{
		Title:       "Lamp",
		Price:       &price,
		Description: "Desk <lamp>",
		CategoryID:  &category,
		Images:      []string{"https://x/lamp.png"},
	})
	require.NoError(t, err)
	require.Equal(t, "Lamp", received["title"])
	require.Equal(t, 12.5, received["price"])
	require.Equal(t, "Desk <lamp>", received["description"])
	require.Equal(t, float64(3), received["categoryId"])
	require.Equal(t, []any{"https://x/lamp.png"}, received["images"])
}

func TestHTTPServiceCreateSendsNullForUnparsedNumbers(t *testing.T) {
	t.Parallel()

	var received map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message": ["price must be a positive number"]}`))
	}))
	t.Cleanup(ts.Close)

	svc, err := catalog.NewHTTPService(ts.URL, ts.Client())
	require.NoError(t, err)

	err = svc.Create(context.Background(), catalog.Payload{Title: "Broken"})
	require.ErrorIs(t, err, catalog.ErrSave)
	require.NotErrorIs(t, err, catalog.ErrNetwork)
	require.Contains(t, err.Error(), "price must be a positive number")

	require.Contains(t, received, "price")
	require.Nil(t, received["price"])
	require.Nil(t, received["categoryId"])
}

func TestHTTPServiceUpdate(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/v1/products/42", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id": 42}`))
	}))
	t.Cleanup(ts.Close)

	svc, err := catalog.NewHTTPService(ts.URL+"/api/v1/products", ts.Client())
	require.NoError(t, err)

	price := 1.0
	require.NoError(t, svc.Update(context.Background(), 42, catalog.Payload{Title: "Renamed", Price: &price}))
}

func TestNewHTTPServiceValidatesBaseURL(t *testing.T) {
	t.Parallel()

	_, err := catalog.NewHTTPService("", nil)
	require.Error(t, err)

	_, err = catalog.NewHTTPService("/relative/products", nil)
	require.Error(t, err)
}
