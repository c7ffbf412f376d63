// SPDX-License-Identifier: MPL-2.0

package rawmod

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Bundle is the optional metadata shipped next to a module as module.toml.
// The ingestion core carries it through untouched; only display and export
// read it.
type Bundle struct {
	Title       string            `toml:"title" json:"title,omitempty"`
	Description string            `toml:"description" json:"description,omitempty"`
	Changelog   string            `toml:"changelog" json:"changelog,omitempty"`
	Tags        []string          `toml:"tags" json:"tags,omitempty"`
	Values      map[string]string `toml:"values" json:"values,omitempty"`
}

// ParseBundle decodes module.toml content. A missing file is not an error;
// callers simply skip the call.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := toml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing metadata bundle: %w", err)
	}
	return &b, nil
}
