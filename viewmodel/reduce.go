// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package viewmodel

import (
	"fmt"

	"github.com/z5labs/postboard/pkg/ptr"
	"github.com/z5labs/postboard/post"
	"github.com/z5labs/postboard/result"
)

// command describes an asynchronous operation a transition asks for.
type command interface {
	command()
}

type fetchPosts struct{}

type submitPost struct {
	post post.Post
}

func (fetchPosts) command() {}
func (submitPost) command() {}

// model is the published State plus the bookkeeping needed to allow
// at most one in-flight operation per kind.
type model struct {
	state    State
	fetching bool
	creating bool
}

func (m model) withLoading() model {
	m.state.IsLoading = m.fetching || m.creating
	return m
}

// UnknownEventError is returned for an Event outside of the closed set.
type UnknownEventError struct {
	Event Event
}

// Error implements the [builtin.error] interface.
func (e UnknownEventError) Error() string {
	return fmt.Sprintf("viewmodel: unknown event: %T", e.Event)
}

// reduce is the pure transition function. A non-nil error leaves the
// model unchanged and starts nothing.
func reduce(m model, ev Event) (model, command, error) {
	switch ev := ev.(type) {
	case LoadPosts:
		if m.fetching {
			return m, nil, nil
		}
		m.fetching = true
		m.state.Err = nil
		return m.withLoading(), fetchPosts{}, nil

	case CreatePost:
		if m.creating {
			return m, nil, nil
		}
		p, err := m.state.Draft().Post()
		if err != nil {
			return m, nil, err
		}
		m.creating = true
		m.state.Err = nil
		return m.withLoading(), submitPost{post: p}, nil

	case UpdateID:
		m.state.ID = ev.Text
		return m, nil, nil

	case UpdateTitle:
		m.state.Title = ev.Text
		return m, nil, nil

	case UpdateBody:
		m.state.Body = ev.Text
		return m, nil, nil

	case UpdateUserID:
		m.state.UserID = ev.Text
		return m, nil, nil

	case ClearForm:
		m.state = m.state.clearForm()
		return m, nil, nil

	case postsLoaded:
		m.fetching = false
		ev.res.
			OnSuccess(func(posts []post.Post) {
				m.state.Posts = posts
			}).
			OnError(func(ne result.NetworkError) {
				m.state.Err = ptr.Ref(ne)
			})
		return m.withLoading(), nil, nil

	case postCreated:
		m.creating = false
		ev.res.
			OnSuccess(func(created post.Post) {
				// full slice expression so earlier snapshots never see the append
				posts := m.state.Posts[:len(m.state.Posts):len(m.state.Posts)]
				m.state.Posts = append(posts, created)
				m.state = m.state.clearForm()
			}).
			OnError(func(ne result.NetworkError) {
				m.state.Err = ptr.Ref(ne)
			})
		return m.withLoading(), nil, nil

	default:
		return m, nil, UnknownEventError{Event: ev}
	}
}
