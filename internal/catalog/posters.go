package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// invalid filename characters replaced by underscores, covering every
// filesystem the posters directory might live on.
var unsafeFilenameChars = strings.NewReplacer(
	" ", "_", "'", "_", ":", "_", "/", "_", "\\", "_",
	"?", "_", "*", "_", `"`, "_", "<", "_", ">", "_", "|", "_",
)

// PosterFilename converts a movie title into a safe jpg filename.
func PosterFilename(title string) string {
	return unsafeFilenameChars.Replace(title) + ".jpg"
}

// DownloadPoster fetches the poster image for a movie (by IMDb ID when
// available, otherwise by title) into dir and returns the stored file's
// path. A movie without a poster returns "" and no error.
func (c *Client) DownloadPoster(ctx context.Context, title, imdbID, dir string) (string, error) {
	params := url.Values{}
	if imdbID != "" {
		params.Set("i", "tt"+stripIDPrefix(imdbID))
	} else {
		params.Set("t", title)
	}

	var raw omdbMovie
	if err := c.get(ctx, params, &raw); err != nil {
		return "", err
	}
	if raw.Response != "True" || raw.Poster == "" || raw.Poster == "N/A" {
		return "", nil
	}

	name := title
	if strings.TrimSpace(name) == "" {
		name = "tt" + stripIDPrefix(imdbID)
	}
	path := filepath.Join(dir, PosterFilename(strings.TrimSpace(name)))

	if err := c.downloadTo(ctx, raw.Poster, path); err != nil {
		return "", err
	}

	log.Debug().Str("title", title).Str("path", path).Msg("poster downloaded")
	return path, nil
}

func (c *Client) downloadTo(ctx context.Context, imageURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build poster request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("poster download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("poster download returned status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create posters directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create poster file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("failed to write poster file: %w", err)
	}
	return nil
}
