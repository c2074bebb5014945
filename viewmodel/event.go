// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package viewmodel

import (
	"github.com/z5labs/postboard/post"
	"github.com/z5labs/postboard/result"
)

// Event is the closed set of inputs accepted by the view model.
type Event interface {
	event()
}

// LoadPosts fetches every post and replaces the displayed list.
type LoadPosts struct{}

// CreatePost validates the draft fields and creates a post from them.
type CreatePost struct{}

// UpdateID replaces the id draft field.
type UpdateID struct{ Text string }

// UpdateTitle replaces the title draft field.
type UpdateTitle struct{ Text string }

// UpdateBody replaces the body draft field.
type UpdateBody struct{ Text string }

// UpdateUserID replaces the user id draft field.
type UpdateUserID struct{ Text string }

// ClearForm empties every draft field.
type ClearForm struct{}

func (LoadPosts) event()    {}
func (CreatePost) event()   {}
func (UpdateID) event()     {}
func (UpdateTitle) event()  {}
func (UpdateBody) event()   {}
func (UpdateUserID) event() {}
func (ClearForm) event()    {}

// completion events are only ever produced by the view model itself
type postsLoaded struct {
	res result.Result[[]post.Post, result.NetworkError]
}

type postCreated struct {
	res result.Result[post.Post, result.NetworkError]
}

func (postsLoaded) event() {}
func (postCreated) event() {}
