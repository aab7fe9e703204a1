package images

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// RemoteRessource is the content of a fetched URL.
type RemoteRessource struct {
	Content  []byte
	MimeType string
}

// UrlFetcher resolves a URL into its content.
// Implementations must be safe for concurrent use.
type UrlFetcher func(url string) (RemoteRessource, error)

// ErrUnsupportedScheme is returned by [DefaultUrlFetcher]
// for URLs other than local files and data URLs.
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

// NewFileFetcher returns a fetcher resolving relative paths
// against `baseDir`, and supporting `file://` and `data:` URLs.
// Network access is never performed.
func NewFileFetcher(baseDir string) UrlFetcher {
	return func(u string) (RemoteRessource, error) {
		if strings.HasPrefix(strings.ToLower(u), "data:") {
			return decodeDataURL(u)
		}
		parsed, err := url.Parse(u)
		if err != nil {
			return RemoteRessource{}, fmt.Errorf("invalid URL %q: %w", u, err)
		}
		var path string
		switch parsed.Scheme {
		case "file":
			path = parsed.Path
		case "":
			path = parsed.Path
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
		default:
			return RemoteRessource{}, fmt.Errorf("%s: %w", parsed.Scheme, ErrUnsupportedScheme)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return RemoteRessource{}, err
		}
		return RemoteRessource{Content: content, MimeType: mime.TypeByExtension(filepath.Ext(path))}, nil
	}
}

// DefaultUrlFetcher resolves paths against the working directory.
var DefaultUrlFetcher = NewFileFetcher(".")

// decodeDataURL parses `data:[<mediatype>][;base64],<data>`.
func decodeDataURL(u string) (RemoteRessource, error) {
	header, data, ok := strings.Cut(u[len("data:"):], ",")
	if !ok {
		return RemoteRessource{}, fmt.Errorf("invalid data URL: missing comma")
	}
	isBase64 := strings.HasSuffix(strings.ToLower(header), ";base64")
	if isBase64 {
		header = header[:len(header)-len(";base64")]
	}
	mimeType := "text/plain"
	if header != "" {
		mimeType, _, _ = strings.Cut(header, ";")
	}
	var content []byte
	if isBase64 {
		var err error
		content, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			content, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(data, "="))
		}
		if err != nil {
			return RemoteRessource{}, fmt.Errorf("invalid base64 data URL: %w", err)
		}
	} else {
		unescaped, err := url.PathUnescape(data)
		if err != nil {
			return RemoteRessource{}, fmt.Errorf("invalid data URL: %w", err)
		}
		content = []byte(unescaped)
	}
	return RemoteRessource{Content: content, MimeType: strings.ToLower(mimeType)}, nil
}
