package catalog

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
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "finitefield.org/catalog-admin/internal/admin/catalog"

// HTTPClient matches the subset of http.Client used by HTTPService.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPService implements Service against the remote products collection endpoint.
type HTTPService struct {
	base   *url.URL
	client HTTPClient
	tracer trace.Tracer
}

// NewHTTPService constructs a Service for the collection at baseURL (e.g. https://host/api/v1/products).
func NewHTTPService(baseURL string, client HTTPClient) (*HTTPService, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("catalog: base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("catalog: parse base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("catalog: base URL must be absolute: %q", baseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPService{
		base:   parsed,
		client: client,
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Search lists one page of products. The server applies the title filter and the offset/limit window.
func (s *HTTPService) Search(ctx context.Context, query Query) (SearchResult, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Search", trace.WithAttributes(
		attribute.Int("catalog.offset", query.Offset),
		attribute.Int("catalog.limit", query.Limit),
		attribute.Bool("catalog.filtered", query.Title != ""),
	))
	defer span.End()

	values := url.Values{}
	values.Set("offset", strconv.Itoa(query.Offset))
	values.Set("limit", strconv.Itoa(query.Limit))
	if query.Title != "" {
		values.Set("title", query.Title)
	}
	endpoint := *s.base
	endpoint.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return SearchResult{}, s.fail(span, &Error{Kind: ErrNetwork, Op: "search", Err: err})
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return SearchResult{}, s.fail(span, &Error{Kind: ErrNetwork, Op: "search", Err: err})
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return SearchResult{}, s.fail(span, errorFromResponse(ErrNetwork, "search", resp))
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return SearchResult{}, s.fail(span, &Error{Kind: ErrNetwork, Op: "search", Err: fmt.Errorf("decode products: %w", err)})
	}

	result := SearchResult{Products: products}
	if raw := strings.TrimSpace(resp.Header.Get("X-Total-Count")); raw != "" {
		if total, err := strconv.Atoi(raw); err == nil && total >= 0 {
			result.Total = &total
		}
	}
	span.SetAttributes(attribute.Int("catalog.count", len(products)))
	return result, nil
}

// Create posts a new product. Only the response status is inspected.
func (s *HTTPService) Create(ctx context.Context, payload Payload) error {
	ctx, span := s.tracer.Start(ctx, "catalog.Create")
	defer span.End()

	return s.send(ctx, span, http.MethodPost, s.base.String(), "create", payload)
}

// Update replaces a product identified by id. Only the response status is inspected.
func (s *HTTPService) Update(ctx context.Context, id int, payload Payload) error {
	ctx, span := s.tracer.Start(ctx, "catalog.Update", trace.WithAttributes(attribute.Int("catalog.product_id", id)))
	defer span.End()

	endpoint := s.base.JoinPath(strconv.Itoa(id))
	return s.send(ctx, span, http.MethodPut, endpoint.String(), "update", payload)
}

func (s *HTTPService) send(ctx context.Context, span trace.Span, method, endpoint, op string, payload Payload) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return s.fail(span, &Error{Kind: ErrSave, Op: op, Err: fmt.Errorf("encode payload: %w", err)})
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, &buf)
	if err != nil {
		return s.fail(span, &Error{Kind: ErrSave, Op: op, Err: err})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return s.fail(span, &Error{Kind: ErrSave, Op: op, Err: err})
	}
	defer resp.Body.Close()

	if !success(resp.StatusCode) {
		return s.fail(span, errorFromResponse(ErrSave, op, resp))
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	return nil
}

func (s *HTTPService) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func success(status int) bool {
	return status >= 200 && status < 300
}

func errorFromResponse(kind error, op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	type errorPayload struct {
		Message any `json:"message"`
	}
	message := strings.TrimSpace(string(body))
	var payload errorPayload
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err == nil && payload.Message != nil {
			switch m := payload.Message.(type) {
			case string:
				message = m
			case []any:
				parts := make([]string, 0, len(m))
				for _, item := range m {
					parts = append(parts, fmt.Sprint(item))
				}
				message = strings.Join(parts, "; ")
			}
		}
	}
	return &Error{Kind: kind, Op: op, StatusCode: resp.StatusCode, Body: message}
}
