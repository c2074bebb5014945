// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package post defines the post record and the raw draft it is built from.
package post

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Post is a single post record. Its identity is ID.
type Post struct {
	ID     int    `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Body   string `json:"body" yaml:"body"`
	UserID int    `json:"userId" yaml:"userId"`
}

// MissingFieldError is returned when a decoded post payload
// does not carry one of the required fields.
type MissingFieldError struct {
	Field string
}

// Error implements the [builtin.error] interface.
func (e MissingFieldError) Error() string {
	return fmt.Sprintf("post: missing required field: %s", e.Field)
}

var requiredFields = []string{"id", "title", "body", "userId"}

// UnmarshalJSON implements the [json.Unmarshaler] interface. Unlike the
// default decoding every field must be present in the payload.
func (p *Post) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	err := json.Unmarshal(b, &fields)
	if err != nil {
		return err
	}
	for _, name := range requiredFields {
		raw, ok := fields[name]
		if !ok || string(raw) == "null" {
			return MissingFieldError{Field: name}
		}
	}

	type plain Post
	var v plain
	err = json.Unmarshal(b, &v)
	if err != nil {
		return err
	}
	*p = Post(v)
	return nil
}

// Draft is the raw, possibly invalid, user input a Post is built from.
type Draft struct {
	ID     string
	Title  string
	Body   string
	UserID string
}

// ValidationError describes every draft field which could not be
// turned into a valid Post field.
type ValidationError struct {
	// Fields maps a draft field name to the reason it is invalid.
	Fields map[string]string
}

// Error implements the [builtin.error] interface.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	reasons := make([]string, 0, len(names))
	for _, name := range names {
		reasons = append(reasons, name+": "+e.Fields[name])
	}
	return "post: invalid draft: " + strings.Join(reasons, "; ")
}

// Post parses the draft into a Post. A non-integer id or userId, or
// a blank title or body, results in a *ValidationError.
func (d Draft) Post() (Post, error) {
	verr := &ValidationError{Fields: map[string]string{}}

	id, err := strconv.Atoi(d.ID)
	if err != nil {
		verr.Fields["id"] = "must be an integer"
	}
	userID, err := strconv.Atoi(d.UserID)
	if err != nil {
		verr.Fields["userId"] = "must be an integer"
	}
	if strings.TrimSpace(d.Title) == "" {
		verr.Fields["title"] = "must not be blank"
	}
	if strings.TrimSpace(d.Body) == "" {
		verr.Fields["body"] = "must not be blank"
	}
	if len(verr.Fields) > 0 {
		return Post{}, verr
	}

	p := Post{
		ID:     id,
		Title:  d.Title,
		Body:   d.Body,
		UserID: userID,
	}
	return p, nil
}
