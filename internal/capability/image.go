package capability

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".heic": true,
}

// FileImages picks a profile image from the local filesystem. Remote
// http(s) URLs are passed through unchanged.
type FileImages struct{}

func (FileImages) Available() bool { return true }

func (FileImages) Notice() string {
	return "Enter an image path or URL (optional)"
}

// Resolve returns "" for blank input, the URL itself for http(s) input, and
// a file:// URI for an existing local image.
func (FileImages) Resolve(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return input, nil
	}

	path := strings.TrimPrefix(input, "file://")
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", input, err)
	}

	if !imageExts[strings.ToLower(filepath.Ext(abs))] {
		return "", fmt.Errorf("%s is not an image", filepath.Base(abs))
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("image not found: %s", abs)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", abs)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
