package recipes

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"chudobludo/apperr"
	"chudobludo/blobstore"
)

// Payload is the single normalized form of an incoming recipe, whether the
// client sent a structured JSON body or a raw JSON string inside a
// multipart form. All validation runs against this struct.
type Payload struct {
	Title                string        `json:"title"`
	Description          string        `json:"description"`
	Categories           []string      `json:"categories"`
	Servings             int           `json:"servings"`
	CookingTime          int           `json:"cookingTime"`
	Ingredients          []string      `json:"ingredients"`
	IngredientQuantities []float64     `json:"ingredientQuantities"`
	IngredientUnits      []string      `json:"ingredientUnits"`
	Steps                []StepPayload `json:"steps"`
	RemoveImage          bool          `json:"removeImage"`
}

type StepPayload struct {
	Description string `json:"description"`
}

// imageSet holds the raw upload bytes from a request: at most one primary
// image, and step images keyed by their explicit step index.
type imageSet struct {
	primary []byte
	steps   map[int][]byte
}

// parseRequest normalizes the two accepted request shapes. Multipart carries
// the recipe JSON in a "data" field plus image files; a plain JSON body
// carries the recipe alone.
func parseRequest(r *http.Request) (*Payload, *imageSet, *apperr.Error) {
	images := &imageSet{steps: make(map[int][]byte)}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var p Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			return nil, nil, apperr.New(apperr.InvalidInput, "invalid JSON body")
		}
		return &p, images, nil
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, nil, apperr.New(apperr.InvalidInput, "failed to parse form")
	}

	raw := r.FormValue("data")
	if raw == "" {
		return nil, nil, apperr.New(apperr.InvalidInput, "data field is required")
	}
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, nil, apperr.New(apperr.InvalidInput, "data field is not valid JSON")
	}

	if fhs := r.MultipartForm.File["image"]; len(fhs) > 0 {
		data, aerr := readUpload(fhs[0])
		if aerr != nil {
			return nil, nil, aerr
		}
		images.primary = data
	}

	// Step images are addressed by explicit index (stepImage_<i>); the
	// positional stepImages field from older clients maps to loop index.
	for i := range p.Steps {
		fhs := r.MultipartForm.File[fmt.Sprintf("stepImage_%d", i)]
		if len(fhs) == 0 {
			fhs = r.MultipartForm.File[fmt.Sprintf("stepImages[%d]", i)]
		}
		if len(fhs) == 0 {
			if all := r.MultipartForm.File["stepImages"]; i < len(all) {
				fhs = all[i : i+1]
			}
		}
		if len(fhs) > 0 {
			data, aerr := readUpload(fhs[0])
			if aerr != nil {
				return nil, nil, aerr
			}
			images.steps[i] = data
		}
	}

	return &p, images, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, *apperr.Error) {
	file, err := fh.Open()
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, "failed to read uploaded file")
	}
	defer file.Close()

	// One byte past the cap is enough to tell "too large" apart.
	data, err := io.ReadAll(io.LimitReader(file, blobstore.MaxImageBytes+1))
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, "failed to read uploaded file")
	}
	if len(data) > blobstore.MaxImageBytes {
		return nil, apperr.New(apperr.InvalidInput, fmt.Sprintf("%s: image exceeds the 5 MB limit", fh.Filename))
	}
	return data, nil
}
