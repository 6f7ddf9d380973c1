package usecase

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/herald/pkg/domain/types"
)

// knownContentTypes covers release artifact extensions that mime.TypeByExtension
// does not know on a bare CI image
var knownContentTypes = map[string]string{
	".gz":     "application/gzip",
	".tgz":    "application/gzip",
	".zip":    "application/zip",
	".tar":    "application/x-tar",
	".xz":     "application/x-xz",
	".bz2":    "application/x-bzip2",
	".zst":    "application/zstd",
	".7z":     "application/x-7z-compressed",
	".deb":    "application/vnd.debian.binary-package",
	".rpm":    "application/x-rpm",
	".apk":    "application/vnd.android.package-archive",
	".dmg":    "application/x-apple-diskimage",
	".pkg":    "application/octet-stream",
	".exe":    "application/vnd.microsoft.portable-executable",
	".msi":    "application/x-msdownload",
	".jar":    "application/java-archive",
	".wasm":   "application/wasm",
	".json":   "application/json",
	".yaml":   "application/yaml",
	".yml":    "application/yaml",
	".txt":    "text/plain",
	".md":     "text/markdown",
	".sig":    "application/pgp-signature",
	".asc":    "application/pgp-signature",
	".pem":    "application/x-pem-file",
	".sha256": "text/plain",
	".sha512": "text/plain",
	".sbom":   "application/json",
	".intoto": "application/json",
}

// ContentTypes resolves the content type of an artifact from its file name.
// Keys are extensions including the leading dot; they take precedence over built-in types.
type ContentTypes map[string]string

// Resolve returns the content type for name, never an empty string
func (c ContentTypes) Resolve(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return types.DefaultContentType
	}

	if ct, ok := c[ext]; ok && ct != "" {
		return ct
	}
	if ct, ok := knownContentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}

	return types.DefaultContentType
}
