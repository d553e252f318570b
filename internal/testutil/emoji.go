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

package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// MakeEmojiDir creates a temporary emoji asset directory. lists maps a file
// name to its contents.
func MakeEmojiDir(t *testing.T, lists map[string]string) string {
	t.Helper()

	files := map[string][]byte{}
	for name, contents := range lists {
		files[name] = []byte(contents)
	}
	return MakeDictDir(t, files)
}

// CLDRServer serves canned CLDR annotation documents.
type CLDRServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
}

// NewCLDRServer starts a server answering /<locale>/annotations.json with
// the body for the locale. Unknown locales get 404. The server is closed when
// the test ends.
func NewCLDRServer(t *testing.T, bodies map[string]string) *CLDRServer {
	t.Helper()

	s := &CLDRServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/annotations.json")

		s.mu.Lock()
		s.requests = append(s.requests, locale)
		s.mu.Unlock()

		body, found := bodies[locale]
		if !ok || !found {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

// URLTemplate returns the annotations URL template for the server.
func (s *CLDRServer) URLTemplate() string {
	return s.URL + "/{locale}/annotations.json"
}

// Requests returns the locales requested so far in order.
func (s *CLDRServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}
