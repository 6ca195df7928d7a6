// CLAUDE:SUMMARY Shared import utilities: HTTP download with retries, ZIP extraction, CSV discovery, manifest writer.
package importer

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hazyhaar/touchstone-normalize/pkg/dict"
	"gopkg.in/yaml.v3"
)

const downloadAttempts = 3

var downloadClient = &http.Client{Timeout: 10 * time.Minute}

// downloadFile fetches url into dest, retrying with exponential backoff.
func downloadFile(ctx context.Context, url, dest string) error {
	var lastErr error
	for attempt := 0; attempt < downloadAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(1<<attempt) * time.Second):
			}
		}
		lastErr = fetchOnce(ctx, url, dest)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("download %s failed after %d attempts: %w", url, downloadAttempts, lastErr)
}

func fetchOnce(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := downloadClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// unzipFile extracts the regular files of a ZIP archive flat into destDir.
func unzipFile(src, destDir string) ([]string, error) {
	r, err := zip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var paths []string
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		// Base drops any directory part, so entries cannot escape destDir.
		destPath := filepath.Join(destDir, filepath.Base(f.Name))
		if err := extractOne(f, destPath); err != nil {
			return nil, err
		}
		paths = append(paths, destPath)
	}
	return paths, nil
}

func extractOne(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open zip entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return out.Close()
}

// findCSV returns the first path with a .csv extension, or "".
func findCSV(paths []string) string {
	for _, p := range paths {
		if strings.EqualFold(filepath.Ext(p), ".csv") {
			return p
		}
	}
	return ""
}

// writeManifest writes m as YAML to dir/manifest.yaml.
func writeManifest(dir string, m *dict.Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "manifest.yaml"), data, 0o644)
}

func ensureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
