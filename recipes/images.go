package recipes

import (
	"errors"
	"log"
	"sync"

	"chudobludo/apperr"
	"chudobludo/blobstore"

	"golang.org/x/sync/errgroup"
)

// Blob store namespaces for recipe media.
const (
	nsRecipes = "recipes"
	nsSteps   = "recipe_steps"
)

func mapBlobErr(err error) *apperr.Error {
	if errors.Is(err, blobstore.ErrTooLarge) ||
		errors.Is(err, blobstore.ErrBadFormat) ||
		errors.Is(err, blobstore.ErrBadPayload) {
		return apperr.New(apperr.InvalidInput, err.Error())
	}
	log.Printf("blob upload failed: %v", err)
	return apperr.Upstream("failed to store image")
}

// uploadImages pushes the primary image and all step images to the blob
// store. Step images are independent of each other and go up concurrently;
// results are joined back by step index. Any failure aborts the whole
// operation and the blobs already stored are removed again, so no recipe is
// ever persisted with half its media.
func uploadImages(images *imageSet) (string, map[int]string, *apperr.Error) {
	var (
		primaryURL string
		mu         sync.Mutex
		stepURLs   = make(map[int]string)
		g          errgroup.Group
	)

	if len(images.primary) > 0 {
		g.Go(func() error {
			url, err := blobstore.Upload(images.primary, nsRecipes)
			if err != nil {
				return err
			}
			mu.Lock()
			primaryURL = url
			mu.Unlock()
			return nil
		})
	}
	for idx, data := range images.steps {
		idx, data := idx, data
		g.Go(func() error {
			url, err := blobstore.Upload(data, nsSteps)
			if err != nil {
				return err
			}
			mu.Lock()
			stepURLs[idx] = url
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		mu.Lock()
		if primaryURL != "" {
			removeBlob(primaryURL)
		}
		for _, url := range stepURLs {
			removeBlob(url)
		}
		mu.Unlock()
		return "", nil, mapBlobErr(err)
	}
	return primaryURL, stepURLs, nil
}

// removeBlob is best-effort: an orphaned file is logged, never fatal.
func removeBlob(url string) {
	if url == "" {
		return
	}
	if err := blobstore.Delete(url); err != nil {
		log.Printf("blob delete failed for %s: %v", url, err)
	}
}
