package recipes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chudobludo/apperr"
)

func jsonRequest(t *testing.T, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPost, "/recipes", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func multipartRequest(t *testing.T, data string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if data != "" {
		require.NoError(t, mw.WriteField("data", data))
	}
	for field, content := range files {
		fw, err := mw.CreateFormFile(field, field+".jpg")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	r := httptest.NewRequest(http.MethodPost, "/recipes", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestParseRequestJSONBody(t *testing.T) {
	r := jsonRequest(t, validPayload())

	p, images, aerr := parseRequest(r)
	require.Nil(t, aerr)
	assert.Equal(t, "Суп", p.Title)
	assert.Len(t, p.Steps, 2)
	assert.Empty(t, images.primary)
	assert.Empty(t, images.steps)
}

func TestParseRequestInvalidJSONBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/recipes", strings.NewReader("{nope"))
	r.Header.Set("Content-Type", "application/json")

	_, _, aerr := parseRequest(r)
	require.NotNil(t, aerr)
	assert.Equal(t, apperr.InvalidInput, aerr.Kind)
}

func TestParseRequestMultipart(t *testing.T) {
	data, err := json.Marshal(validPayload())
	require.NoError(t, err)

	r := multipartRequest(t, string(data), map[string][]byte{
		"image":       []byte("primary-bytes"),
		"stepImage_1": []byte("step-one-bytes"),
	})

	p, images, aerr := parseRequest(r)
	require.Nil(t, aerr)
	assert.Equal(t, "Суп", p.Title)
	assert.Equal(t, []byte("primary-bytes"), images.primary)
	require.Contains(t, images.steps, 1)
	assert.Equal(t, []byte("step-one-bytes"), images.steps[1])
	assert.NotContains(t, images.steps, 0)
}

// Older clients send a bare stepImages file list matched to loop index.
func TestParseRequestMultipartPositionalStepImages(t *testing.T) {
	data, err := json.Marshal(validPayload())
	require.NoError(t, err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("data", string(data)))
	for _, content := range []string{"first", "second"} {
		fw, err := mw.CreateFormFile("stepImages", content+".jpg")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	r := httptest.NewRequest(http.MethodPost, "/recipes", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	_, images, aerr := parseRequest(r)
	require.Nil(t, aerr)
	assert.Equal(t, []byte("first"), images.steps[0])
	assert.Equal(t, []byte("second"), images.steps[1])
}

func TestParseRequestMultipartMissingData(t *testing.T) {
	r := multipartRequest(t, "", map[string][]byte{"image": []byte("x")})

	_, _, aerr := parseRequest(r)
	require.NotNil(t, aerr)
	assert.Equal(t, apperr.InvalidInput, aerr.Kind)
	assert.Contains(t, aerr.Message, "data")
}

func TestParseRequestMultipartBadDataJSON(t *testing.T) {
	r := multipartRequest(t, "not-json", nil)

	_, _, aerr := parseRequest(r)
	require.NotNil(t, aerr)
	assert.Equal(t, apperr.InvalidInput, aerr.Kind)
}

// Indexed step image for an index past the steps array is ignored rather
// than failing the request.
func TestParseRequestIgnoresOutOfRangeStepImage(t *testing.T) {
	data, err := json.Marshal(validPayload())
	require.NoError(t, err)

	r := multipartRequest(t, string(data), map[string][]byte{
		"stepImage_7": []byte("orphan"),
	})

	_, images, aerr := parseRequest(r)
	require.Nil(t, aerr)
	assert.Empty(t, images.steps)
}
