// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package repository is the data access boundary the view model talks to.
package repository

import (
	"context"

	"github.com/z5labs/postboard/post"
	"github.com/z5labs/postboard/result"
)

// Source is anything which can list and create posts.
type Source interface {
	FetchAll(context.Context) result.Result[[]post.Post, result.NetworkError]
	Create(context.Context, post.Post) result.Result[post.Post, result.NetworkError]
}

// Posts delegates to a Source without caching or retrying.
type Posts struct {
	src Source
}

// New returns a Posts repository backed by src.
func New(src Source) *Posts {
	return &Posts{src: src}
}

// GetPosts
func (p *Posts) GetPosts(ctx context.Context) result.Result[[]post.Post, result.NetworkError] {
	return p.src.FetchAll(ctx)
}

// CreatePost
func (p *Posts) CreatePost(ctx context.Context, v post.Post) result.Result[post.Post, result.NetworkError] {
	return p.src.Create(ctx, v)
}
