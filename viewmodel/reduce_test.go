// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package viewmodel

import (
	"testing"

	"github.com/z5labs/postboard/pkg/ptr"
	"github.com/z5labs/postboard/post"
	"github.com/z5labs/postboard/result"

	"github.com/stretchr/testify/assert"
)

func TestReduce_draftFields(t *testing.T) {
	t.Run("will replace only the targeted field", func(t *testing.T) {
		t.Run("if the title is updated twice", func(t *testing.T) {
			m := model{state: State{ID: "1", Body: "B", UserID: "2"}}

			m, cmd, err := reduce(m, UpdateTitle{Text: "x"})
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Nil(t, cmd) {
				return
			}
			m, _, _ = reduce(m, UpdateTitle{Text: "y"})

			if !assert.Equal(t, State{ID: "1", Title: "y", Body: "B", UserID: "2"}, m.state) {
				return
			}
		})

		t.Run("if every field is updated", func(t *testing.T) {
			var m model
			m, _, _ = reduce(m, UpdateID{Text: "abc"})
			m, _, _ = reduce(m, UpdateTitle{Text: " t "})
			m, _, _ = reduce(m, UpdateBody{Text: ""})
			m, _, _ = reduce(m, UpdateUserID{Text: "-3"})

			if !assert.Equal(t, State{ID: "abc", Title: " t ", Body: "", UserID: "-3"}, m.state) {
				return
			}
		})
	})
}

func TestReduce_ClearForm(t *testing.T) {
	t.Run("will reset only the draft fields", func(t *testing.T) {
		t.Run("if an operation is in flight and an error is set", func(t *testing.T) {
			posts := []post.Post{{ID: 1, Title: "a", Body: "b", UserID: 2}}
			m := model{
				fetching: true,
				state: State{
					Posts:     posts,
					ID:        "1",
					Title:     "T",
					Body:      "B",
					UserID:    "2",
					IsLoading: true,
					Err:       ptr.Ref(result.ServerError),
				},
			}

			next, cmd, err := reduce(m, ClearForm{})
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Nil(t, cmd) {
				return
			}

			expected := State{
				Posts:     posts,
				IsLoading: true,
				Err:       ptr.Ref(result.ServerError),
			}
			if !assert.Equal(t, expected, next.state) {
				return
			}
		})
	})
}

func TestReduce_LoadPosts(t *testing.T) {
	t.Run("will start a fetch", func(t *testing.T) {
		t.Run("if no fetch is in flight", func(t *testing.T) {
			m := model{state: State{Err: ptr.Ref(result.NoInternet)}}

			next, cmd, err := reduce(m, LoadPosts{})
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, fetchPosts{}, cmd) {
				return
			}
			if !assert.True(t, next.state.IsLoading) {
				return
			}
			if !assert.Nil(t, next.state.Err) {
				return
			}
		})
	})

	t.Run("will be ignored", func(t *testing.T) {
		t.Run("if a fetch is already in flight", func(t *testing.T) {
			m := model{fetching: true, state: State{IsLoading: true}}

			next, cmd, err := reduce(m, LoadPosts{})
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Nil(t, cmd) {
				return
			}
			if !assert.Equal(t, m, next) {
				return
			}
		})
	})

	t.Run("will replace the posts", func(t *testing.T) {
		t.Run("if the fetch succeeds", func(t *testing.T) {
			m := model{
				fetching: true,
				state: State{
					Posts:     []post.Post{{ID: 9}},
					IsLoading: true,
				},
			}
			posts := []post.Post{{ID: 1, Title: "a", Body: "b", UserID: 2}}

			next, _, err := reduce(m, postsLoaded{res: result.Success[[]post.Post, result.NetworkError](posts)})
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, State{Posts: posts}, next.state) {
				return
			}
			if !assert.False(t, next.fetching) {
				return
			}
		})
	})

	t.Run("will set the error", func(t *testing.T) {
		t.Run("if the fetch fails", func(t *testing.T) {
			posts := []post.Post{{ID: 9}}
			m := model{
				fetching: true,
				state:    State{Posts: posts, IsLoading: true},
			}

			next, _, err := reduce(m, postsLoaded{res: result.Error[[]post.Post](result.Unauthorized)})
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, State{Posts: posts, Err: ptr.Ref(result.Unauthorized)}, next.state) {
				return
			}
		})
	})

	t.Run("will stay loading", func(t *testing.T) {
		t.Run("if a create is still in flight when the fetch completes", func(t *testing.T) {
			m := model{fetching: true, creating: true, state: State{IsLoading: true}}

			next, _, _ := reduce(m, postsLoaded{res: result.Success[[]post.Post, result.NetworkError](nil)})
			if !assert.True(t, next.state.IsLoading) {
				return
			}
		})
	})
}

func TestReduce_CreatePost(t *testing.T) {
	t.Run("will leave the model unchanged", func(t *testing.T) {
		testCases := []struct {
			Name  string
			State State
		}{
			{
				Name:  "if the id is not numeric",
				State: State{ID: "abc", Title: "T", Body: "B", UserID: "2"},
			},
			{
				Name:  "if the user id is not numeric",
				State: State{ID: "1", Title: "T", Body: "B", UserID: ""},
			},
			{
				Name:  "if the title is blank",
				State: State{ID: "1", Title: " ", Body: "B", UserID: "2"},
			},
			{
				Name:  "if the body is blank",
				State: State{ID: "1", Title: "T", Body: "\t", UserID: "2"},
			},
		}

		for _, testCase := range testCases {
			testCase := testCase
			t.Run(testCase.Name, func(t *testing.T) {
				m := model{state: testCase.State}

				next, cmd, err := reduce(m, CreatePost{})

				var verr *post.ValidationError
				if !assert.ErrorAs(t, err, &verr) {
					return
				}
				if !assert.Nil(t, cmd) {
					return
				}
				if !assert.Equal(t, m, next) {
					return
				}
			})
		}
	})

	t.Run("will start a create", func(t *testing.T) {
		t.Run("if the draft is valid", func(t *testing.T) {
			m := model{state: State{ID: "1", Title: "T", Body: "B", UserID: "2", Err: ptr.Ref(result.Conflict)}}

			next, cmd, err := reduce(m, CreatePost{})
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, submitPost{post: post.Post{ID: 1, Title: "T", Body: "B", UserID: 2}}, cmd) {
				return
			}
			if !assert.True(t, next.state.IsLoading) {
				return
			}
			if !assert.Nil(t, next.state.Err) {
				return
			}
		})
	})

	t.Run("will append the created post and clear the form", func(t *testing.T) {
		t.Run("if the create succeeds", func(t *testing.T) {
			posts := make([]post.Post, 1, 4)
			posts[0] = post.Post{ID: 1, Title: "a", Body: "b", UserID: 2}
			m := model{
				creating: true,
				state: State{
					Posts:     posts,
					ID:        "7",
					Title:     "T",
					Body:      "B",
					UserID:    "2",
					IsLoading: true,
				},
			}
			created := post.Post{ID: 101, Title: "T", Body: "B", UserID: 2}

			next, _, err := reduce(m, postCreated{res: result.Success[post.Post, result.NetworkError](created)})
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, State{Posts: []post.Post{posts[0], created}}, next.state) {
				return
			}

			// the previous snapshot must not observe the append
			if !assert.Len(t, m.state.Posts, 1) {
				return
			}
			if !assert.Equal(t, post.Post{}, posts[:cap(posts)][1]) {
				return
			}
		})
	})

	t.Run("will set the error and keep the form", func(t *testing.T) {
		t.Run("if the create fails", func(t *testing.T) {
			m := model{
				creating: true,
				state:    State{ID: "1", Title: "T", Body: "B", UserID: "2", IsLoading: true},
			}

			next, _, err := reduce(m, postCreated{res: result.Error[post.Post](result.PayloadTooLarge)})
			if !assert.Nil(t, err) {
				return
			}

			expected := State{ID: "1", Title: "T", Body: "B", UserID: "2", Err: ptr.Ref(result.PayloadTooLarge)}
			if !assert.Equal(t, expected, next.state) {
				return
			}
		})
	})

	t.Run("will be ignored", func(t *testing.T) {
		t.Run("if a create is already in flight", func(t *testing.T) {
			m := model{creating: true, state: State{ID: "1", Title: "T", Body: "B", UserID: "2", IsLoading: true}}

			next, cmd, err := reduce(m, CreatePost{})
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Nil(t, cmd) {
				return
			}
			if !assert.Equal(t, m, next) {
				return
			}
		})
	})
}

type bogusEvent struct{}

func (bogusEvent) event() {}

func TestReduce_unknownEvent(t *testing.T) {
	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the event is not part of the closed set", func(t *testing.T) {
			_, _, err := reduce(model{}, bogusEvent{})

			var uerr UnknownEventError
			if !assert.ErrorAs(t, err, &uerr) {
				return
			}
		})
	})
}
