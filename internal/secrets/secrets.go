// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads the search provider's credentials from a directory
// of plain-text files. Each file holds one secret: the filename is the key
// name and the trimmed contents are the value. Only recognized key names
// are loaded; anything else in the directory is ignored with a warning, so
// a stray file never rides into the process as a credential.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TavilyAPIKey is the key file holding the search provider's API key.
const TavilyAPIKey = "tavily-api-key"

// knownKeys is the allow-list of key files Load will read.
var knownKeys = map[string]bool{
	TavilyAPIKey: true,
}

// Load reads the recognized key files in dir and returns a map of key name
// to trimmed value. A missing directory is not an error; Load returns an
// empty map. Unreadable or unrecognized files produce a warning on stderr
// but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !knownKeys[name] {
			fmt.Fprintf(os.Stderr, "warning: ignoring unrecognized secret file %s\n", name)
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}
