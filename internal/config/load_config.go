package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed manifest.yaml
var defaultManifest []byte

// LoadManifest decodes the embedded manifest.yaml.
func LoadManifest() (*Manifest, error) {
	return ParseManifest(defaultManifest)
}

// ParseManifest decodes a manifest document and checks the fields every run relies on.
func ParseManifest(raw []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	// ----- Required fields -----
	switch {
	case m.Homebrew.InstallerURL == "":
		return nil, fmt.Errorf("manifest: homebrew.installer_url is empty")
	case m.Framework.InstallerURL == "":
		return nil, fmt.Errorf("manifest: framework.installer_url is empty")
	case m.Theme.Prefix == "" || m.Theme.Line == "":
		return nil, fmt.Errorf("manifest: theme prefix and line are required")
	case m.Plugins.Prefix == "" || m.Plugins.Line == "":
		return nil, fmt.Errorf("manifest: plugins prefix and line are required")
	case m.Listing.Runtime.MinVersion == "":
		return nil, fmt.Errorf("manifest: listing.runtime.min_version is empty")
	}

	for _, f := range m.Fonts {
		if f.File == "" || (f.URL == "" && f.Archive == "") {
			return nil, fmt.Errorf("manifest: font %q needs a file and a url or archive", f.Name)
		}
	}

	return &m, nil
}
