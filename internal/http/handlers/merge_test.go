package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bouquet/internal/domain"
	"bouquet/internal/infra"
	"bouquet/internal/merge"
	"bouquet/internal/providers"
)

type stubMerger struct {
	result *merge.Result
	err    error
	got    []providers.SourceImage
}

func (s *stubMerger) Merge(_ context.Context, images []providers.SourceImage) (*merge.Result, error) {
	s.got = images
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubComposer struct {
	urls []string
	err  error
}

func (s *stubComposer) Compose(_ context.Context, _ []providers.SourceImage) ([]string, error) {
	return s.urls, s.err
}

func testConfig() *infra.Config {
	return &infra.Config{
		MinImagesPerRequest: 4,
		MaxImagesPerRequest: 6,
		MaxFileSize:         10 << 20,
		MaxRequestSize:      30 << 20,
		VisionModel:         "gpt-4o",
		ChatModel:           "gpt-4o-mini",
		ImageModelPrimary:   "dall-e-3",
		ImageModelFallback:  "dall-e-2",
	}
}

func newTestApp(merger BouquetMerger, composer FlowerComposer) *App {
	return NewApp(testConfig(), zerolog.Nop(), merger, composer)
}

// multipartBody builds an upload with each part declared image/jpeg, the
// way browsers submit image files.
func multipartBody(t *testing.T, field string, count int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for i := 0; i < count; i++ {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename="flower%d.jpg"`, field, i))
		hdr.Set("Content-Type", "image/jpeg")
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0, byte(i)})
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestMergeUpload_Success(t *testing.T) {
	merger := &stubMerger{result: &merge.Result{Title: "Rose Harmony", ImageURL: "https://img.example/x.png"}}
	app := newTestApp(merger, nil)

	body, ct := multipartBody(t, "images", 4)
	req := httptest.NewRequest(http.MethodPost, "/flower-merge/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	app.MergeUpload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got merge.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Rose Harmony", got.Title)
	assert.Equal(t, "https://img.example/x.png", got.ImageURL)
	assert.Len(t, merger.got, 4)
}

func TestMergeUpload_TooManyImages(t *testing.T) {
	merger := &stubMerger{}
	app := newTestApp(merger, nil)

	body, ct := multipartBody(t, "images", 7)
	req := httptest.NewRequest(http.MethodPost, "/flower-merge/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	app.MergeUpload(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "6")
	assert.Nil(t, merger.got, "pipeline must not run on a rejected batch")
}

func TestMergeUpload_TooFewImages(t *testing.T) {
	app := newTestApp(&stubMerger{}, nil)

	body, ct := multipartBody(t, "images", 2)
	req := httptest.NewRequest(http.MethodPost, "/flower-merge/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	app.MergeUpload(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "minimum 4")
}

func TestMergeUpload_RejectsNonImageContentType(t *testing.T) {
	app := newTestApp(&stubMerger{}, nil)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for i := 0; i < 4; i++ {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="doc%d.pdf"`, i))
		hdr.Set("Content-Type", "application/pdf")
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/flower-merge/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	app.MergeUpload(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not a valid image")
	assert.Contains(t, rec.Body.String(), "doc0.pdf")
}

func TestMergeUpload_RejectsMissingContentType(t *testing.T) {
	merger := &stubMerger{}
	app := newTestApp(merger, nil)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for i := 0; i < 4; i++ {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="images"; filename="flower%d.jpg"`, i))
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write([]byte{0xFF, 0xD8, 0xFF})
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/flower-merge/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	app.MergeUpload(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not a valid image")
	assert.Nil(t, merger.got, "pipeline must not run on an undeclared content type")
}

func TestMergeUpload_UpstreamFailureMapsTo502(t *testing.T) {
	merger := &stubMerger{err: domain.Upstreamf("generate image", "all models failed")}
	app := newTestApp(merger, nil)

	body, ct := multipartBody(t, "images", 4)
	req := httptest.NewRequest(http.MethodPost, "/flower-merge/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	app.MergeUpload(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to create bouquet: generate image")
}

func TestMergeUpload_ValidationFailureMapsTo400(t *testing.T) {
	merger := &stubMerger{err: domain.Validationf("image 2 (x.jpg) is corrupted")}
	app := newTestApp(merger, nil)

	body, ct := multipartBody(t, "images", 4)
	req := httptest.NewRequest(http.MethodPost, "/flower-merge/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	app.MergeUpload(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "corrupted")
}

func TestComposeGenerate_Success(t *testing.T) {
	composer := &stubComposer{urls: []string{"http://localhost:8066/temp-generated-images/flower_ab.png"}}
	app := newTestApp(&stubMerger{}, composer)

	body, ct := multipartBody(t, "image_files", 2)
	req := httptest.NewRequest(http.MethodPost, "/flower-merge/generate", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	app.ComposeGenerate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		SuccessMessage string   `json:"success_message"`
		ImageURLs      []string `json:"image_urls"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Generated flower composition from 2 images", got.SuccessMessage)
	assert.Equal(t, composer.urls, got.ImageURLs)
}

func TestComposeGenerate_NoBackend(t *testing.T) {
	app := newTestApp(&stubMerger{}, nil)

	body, ct := multipartBody(t, "image_files", 2)
	req := httptest.NewRequest(http.MethodPost, "/flower-merge/generate", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	app.ComposeGenerate(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServiceHealth_ReportsLimits(t *testing.T) {
	app := newTestApp(&stubMerger{}, &stubComposer{})

	req := httptest.NewRequest(http.MethodGet, "/flower-merge/health", nil)
	rec := httptest.NewRecorder()

	app.ServiceHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "healthy", got["status"])
	limits, ok := got["limits"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 4, limits["min_images"])
	assert.EqualValues(t, 6, limits["max_images"])
	assert.Equal(t, true, got["composition_enabled"])
}
