package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maltedev/product-image-generator/internal/compositor"
	"github.com/maltedev/product-image-generator/internal/generator"
	"github.com/maltedev/product-image-generator/internal/models"
	"github.com/maltedev/product-image-generator/internal/scraper"
)

const productURL = "https://shop.test/p/1"

type stubGenerator struct {
	err      error
	formulas []string
}

func (s *stubGenerator) record() *models.ProductRecord {
	return &models.ProductRecord{
		Name:            "Blue Dress",
		Price:           decimal.NewFromInt(1000),
		SizeColorMatrix: models.NewSizeColorMatrix(),
		SourceURL:       productURL,
	}
}

func (s *stubGenerator) ExtractDebug(_ context.Context, _ string) (*models.ProductRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.record(), nil
}

func (s *stubGenerator) GenerateImage(_ context.Context, url, formula string) (*generator.GeneratedImage, error) {
	if s.err != nil {
		return nil, s.err
	}
	if formula == "" {
		formula = s.DefaultFormula()
	}
	s.formulas = append(s.formulas, formula)
	return &generator.GeneratedImage{
		ID:       generator.ImageID(url, formula),
		Filename: "product_Blue_Dress.jpg",
		Formula:  formula,
		Data:     []byte("jpeg-bytes"),
		Product:  s.record(),
	}, nil
}

func (s *stubGenerator) DefaultFormula() string { return "x * 1.3" }

func newServer(t *testing.T, g Generator) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(NewHandlers(g, nil), RouterOptions{}))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, endpoint, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(endpoint, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealth(t *testing.T) {
	srv := newServer(t, &stubGenerator{})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDebugScrape(t *testing.T) {
	srv := newServer(t, &stubGenerator{})

	resp, out := postJSON(t, srv.URL+"/api/v1/debug-scrape", fmt.Sprintf(`{"url":%q}`, productURL))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, out["success"])
	data := out["debug_data"].(map[string]interface{})
	assert.Equal(t, "Blue Dress", data["name"])
	assert.Equal(t, 1000.0, data["price"])
	assert.Equal(t, productURL, data["original_url"])
}

func TestRequestValidation(t *testing.T) {
	srv := newServer(t, &stubGenerator{})

	for _, endpoint := range []string{"/api/v1/debug-scrape", "/api/v1/generate-image"} {
		for name, body := range map[string]string{
			"missing url": `{}`,
			"blank url":   `{"url":"  "}`,
			"bad json":    `{"url":`,
		} {
			t.Run(endpoint+" "+name, func(t *testing.T) {
				resp, out := postJSON(t, srv.URL+endpoint, body)

				assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
				assert.Equal(t, false, out["success"])
				assert.NotEmpty(t, out["error"])
			})
		}
	}
}

func TestPipelineFailuresReportShortMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("failed to extract product: %w", scraper.ErrInvalidURL), "invalid product URL"},
		{fmt.Errorf("failed to extract product: %w", scraper.ErrFetch), "failed to fetch product page"},
		{fmt.Errorf("failed to generate image: %w", compositor.ErrComposition), "failed to generate image"},
		{context.DeadlineExceeded, "request timed out"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			srv := newServer(t, &stubGenerator{err: tt.err})

			resp, out := postJSON(t, srv.URL+"/api/v1/generate-image", fmt.Sprintf(`{"url":%q}`, productURL))

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, false, out["success"])
			assert.Equal(t, tt.want, out["error"])
		})
	}
}

func TestGenerateImageAndDownload(t *testing.T) {
	g := &stubGenerator{}
	srv := newServer(t, g)

	resp, out := postJSON(t, srv.URL+"/api/v1/generate-image", fmt.Sprintf(`{"url":%q,"formula":"x * 1.55"}`, productURL))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, out["success"])

	imageURL := out["image_url"].(string)
	assert.True(t, strings.HasPrefix(imageURL, "/api/v1/download/"+generator.ImageID(productURL, "x * 1.55")+"?"))
	assert.Equal(t, "Blue Dress", out["product_data"].(map[string]interface{})["name"])

	download, err := http.Get(srv.URL + imageURL)
	require.NoError(t, err)
	defer download.Body.Close()

	assert.Equal(t, http.StatusOK, download.StatusCode)
	assert.Equal(t, "image/jpeg", download.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename=product_Blue_Dress.jpg`, download.Header.Get("Content-Disposition"))
	assert.Equal(t, []string{"x * 1.55", "x * 1.55"}, g.formulas)
}

func TestDownloadValidation(t *testing.T) {
	srv := newServer(t, &stubGenerator{})

	t.Run("missing url", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/download/abc")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("id does not match", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/download/abc?url=" + url.QueryEscape(productURL))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("default formula", func(t *testing.T) {
		id := generator.ImageID(productURL, "x * 1.3")
		resp, err := http.Get(srv.URL + "/api/v1/download/" + id + "?url=" + url.QueryEscape(productURL))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestDownloadURL(t *testing.T) {
	got := DownloadURL("id-1", "https://shop.test/p?id=1&x=2", "x * 1.3")

	assert.Equal(t, "/api/v1/download/id-1?formula=x+%2A+1.3&url=https%3A%2F%2Fshop.test%2Fp%3Fid%3D1%26x%3D2", got)
}
