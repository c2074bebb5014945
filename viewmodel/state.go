// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package viewmodel

import (
	"github.com/z5labs/postboard/post"
	"github.com/z5labs/postboard/result"
)

// State is an immutable snapshot of the posts screen. A new State is
// produced for every transition and previously published snapshots
// are never modified.
type State struct {
	// Posts in display order.
	Posts []post.Post `json:"posts" yaml:"posts"`

	// Draft fields mirror raw user input.
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Body   string `json:"body" yaml:"body"`
	UserID string `json:"userId" yaml:"userId"`

	IsLoading bool                 `json:"isLoading" yaml:"isLoading"`
	Err       *result.NetworkError `json:"error,omitempty" yaml:"error,omitempty"`
}

// Draft returns the draft fields of s.
func (s State) Draft() post.Draft {
	return post.Draft{
		ID:     s.ID,
		Title:  s.Title,
		Body:   s.Body,
		UserID: s.UserID,
	}
}

func (s State) clearForm() State {
	s.ID = ""
	s.Title = ""
	s.Body = ""
	s.UserID = ""
	return s
}
