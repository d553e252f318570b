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

// Package emoji builds the emoji search assets shipped with the keyboard.
//
// Generation works in four steps:
//  1. The allow-set is read from the emoji lists the keyboard ships. Each
//     list is a text file of whitespace separated emoji.
//  2. CLDR annotations are fetched for a locale.
//  3. Annotations are filtered to the allow-set and reduced to rows of
//     emoji, spoken name, and keywords.
//  4. Rows are written to a tab separated file, one per locale:
//
//     <emoji>\t<spoken name>\t<keyword>|<keyword>|...\n
//
// The package also reads the generated files back and ranks emoji for a
// query the same way the keyboard's emoji picker does.
package emoji
