// Package storage uploads user files to object storage and hands back
// public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"sync"
)

// Folders used by the upload flows.
const (
	FolderOrders    = "easyPro/orders"
	FolderResources = "easyPro/resources"
	FolderImages    = "easyPro/images"
)

// ErrNotConfigured is returned when no object storage backend is set up.
var ErrNotConfigured = errors.New("object storage is not configured")

// Uploader stores a file in folder and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename, folder string) (string, error)
}

type unconfigured struct{}

func (unconfigured) Upload(context.Context, io.Reader, string, string) (string, error) {
	return "", ErrNotConfigured
}

var (
	mu      sync.RWMutex
	current Uploader = unconfigured{}
)

// SetUploader installs the process-wide uploader.
func SetUploader(u Uploader) {
	mu.Lock()
	defer mu.Unlock()
	if u == nil {
		u = unconfigured{}
	}
	current = u
}

// GetUploader returns the process-wide uploader.
func GetUploader() Uploader {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// UploadFile uploads a multipart form file.
func UploadFile(ctx context.Context, u Uploader, fh *multipart.FileHeader, folder string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	url, err := u.Upload(ctx, f, fh.Filename, folder)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", fh.Filename, err)
	}
	return url, nil
}

// UploadFiles uploads every file concurrently and returns the URLs in input
// order. The first failure is returned.
func UploadFiles(ctx context.Context, u Uploader, files []*multipart.FileHeader, folder string) ([]string, error) {
	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, fh := range files {
		wg.Add(1)
		go func() {
			defer wg.Done()
			urls[i], errs[i] = UploadFile(ctx, u, fh, folder)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return urls, nil
}
