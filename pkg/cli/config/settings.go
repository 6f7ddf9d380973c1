package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/herald/pkg/domain/types"
	"github.com/m-mizutani/herald/pkg/usecase"
	"github.com/pelletier/go-toml/v2"
)

// Settings is the optional TOML settings file
type Settings struct {
	Changelog    ChangelogSettings `toml:"changelog"`
	ContentTypes map[string]string `toml:"content_types"`
}

// ChangelogSettings controls the changelog section of the release body
type ChangelogSettings struct {
	Heading     string `toml:"heading"`
	FullMessage bool   `toml:"full_message"`
}

// LoadSettings reads the settings file. An empty path yields default settings.
func LoadSettings(path string) (*Settings, error) {
	settings := &Settings{}
	if path == "" {
		return settings, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read settings file", goerr.V("path", path))
	}

	decoder := toml.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(settings); err != nil {
		return nil, goerr.Wrap(types.ErrInvalidConfig, "failed to parse settings file",
			goerr.V("path", path),
			goerr.V("error", err.Error()),
		)
	}

	contentTypes := make(map[string]string, len(settings.ContentTypes))
	for ext, ct := range settings.ContentTypes {
		if !strings.HasPrefix(ext, ".") || ct == "" {
			return nil, goerr.Wrap(types.ErrInvalidConfig, "content type key must be an extension with a leading dot and a non-empty value",
				goerr.V("path", path),
				goerr.V("extension", ext),
			)
		}
		contentTypes[strings.ToLower(ext)] = ct
	}
	settings.ContentTypes = contentTypes

	return settings, nil
}

// PublishOptions converts settings to publish use case options
func (s *Settings) PublishOptions() []usecase.PublishOption {
	return []usecase.PublishOption{
		usecase.WithChangelogHeading(s.Changelog.Heading),
		usecase.WithFullCommitMessage(s.Changelog.FullMessage),
		usecase.WithContentTypes(usecase.ContentTypes(s.ContentTypes)),
	}
}
