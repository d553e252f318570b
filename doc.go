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

// Package imeassets holds the project layout shared by the keyboard's asset
// preparation tools.
//
// The tools work on an Android project checkout:
//  1. Dictionaries under app/src/main/assets/common/dictionaries_serialized
//     are re-encoded from JSON to CBOR by cmd/dictconv. See package reencode.
//  2. Emoji search tables under app/src/main/assets/common/emoji_search are
//     generated from CLDR annotations by cmd/emojisearch. See package emoji.
//
// Every location can be overridden with a YAML file loaded by [Load]. Relative
// paths are resolved against the project root.
package imeassets
