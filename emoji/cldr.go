// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package emoji

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

var (
	// ErrFetch indicates that annotations could not be retrieved.
	ErrFetch = fmt.Errorf("%w: fetching annotations", ErrEmoji)

	// ErrMalformed indicates that a response was not a CLDR annotations
	// document.
	ErrMalformed = fmt.Errorf("%w: malformed annotations", ErrEmoji)
)

// LocalePlaceholder is replaced with the locale in a URL template.
const LocalePlaceholder = "{locale}"

// DefaultURLTemplate is the location of the CLDR full annotations.
const DefaultURLTemplate = "https://raw.githubusercontent.com/unicode-org/cldr-json/main/cldr-json/" +
	"cldr-annotations-full/annotations/" + LocalePlaceholder + "/annotations.json"

// Annotations maps an emoji sequence to its raw CLDR payload.
type Annotations map[string]json.RawMessage

// Fetcher retrieves the annotations for a locale.
type Fetcher interface {
	Fetch(ctx context.Context, locale string) (Annotations, error)
}

// HTTPFetcher fetches annotations over HTTP.
type HTTPFetcher struct {
	// Client is the HTTP client. http.DefaultClient is used if nil.
	Client *http.Client

	// URLTemplate is the annotations URL with LocalePlaceholder in place of
	// the locale. DefaultURLTemplate is used if empty.
	URLTemplate string
}

// URL returns the annotations URL for locale.
func (f *HTTPFetcher) URL(locale string) string {
	tmpl := f.URLTemplate
	if tmpl == "" {
		tmpl = DefaultURLTemplate
	}
	return strings.ReplaceAll(tmpl, LocalePlaceholder, url.PathEscape(locale))
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, locale string) (Annotations, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	u := f.URL(locale)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, locale, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, locale, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s: %s: %s", ErrFetch, locale, u, resp.Status)
	}

	a, err := DecodeAnnotations(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", locale, err)
	}
	return a, nil
}

// DecodeAnnotations reads a CLDR annotations document and returns the map at
// annotations.annotations.
func DecodeAnnotations(r io.Reader) (Annotations, error) {
	var doc struct {
		Annotations *struct {
			Annotations Annotations `json:"annotations"`
		} `json:"annotations"`
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if doc.Annotations == nil || doc.Annotations.Annotations == nil {
		return nil, fmt.Errorf("%w: missing annotations.annotations", ErrMalformed)
	}
	return doc.Annotations.Annotations, nil
}
