// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/z5labs/postboard/post"
	"github.com/z5labs/postboard/result"
	"github.com/z5labs/postboard/viewmodel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var out bytes.Buffer
	err := Run(ctx, args, &out, io.Discard)
	return out.String(), err
}

func postsServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	t.Setenv("POSTBOARD_API_BASEURL", srv.URL+"/api/posts/")
}

func TestRun_List(t *testing.T) {
	t.Run("will render every post", func(t *testing.T) {
		t.Run("if the output format is json", func(t *testing.T) {
			postsServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/api/posts/" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				io.WriteString(w, `[{"id":1,"title":"a","body":"b","userId":2}]`)
			})

			out, err := runCLI(t, "list", "-o", "json")
			if !assert.Nil(t, err) {
				return
			}

			var st viewmodel.State
			err = json.Unmarshal([]byte(out), &st)
			require.Nil(t, err)

			expected := viewmodel.State{
				Posts: []post.Post{{ID: 1, Title: "a", Body: "b", UserID: 2}},
			}
			if !assert.Equal(t, expected, st) {
				return
			}
		})

		t.Run("if the output format is table", func(t *testing.T) {
			postsServer(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `[{"id":7,"title":"hello","body":"world","userId":3}]`)
			})

			out, err := runCLI(t, "list")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Contains(t, out, "hello") {
				return
			}
			if !assert.Contains(t, out, "world") {
				return
			}
		})
	})

	t.Run("will render the error and return it", func(t *testing.T) {
		t.Run("if the server responds with a 5xx", func(t *testing.T) {
			postsServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			})

			out, err := runCLI(t, "list", "-o", "yaml")

			var oerr OperationError
			if !assert.ErrorAs(t, err, &oerr) {
				return
			}
			if !assert.Equal(t, result.ServerError, oerr.Err) {
				return
			}

			var st viewmodel.State
			err = yaml.Unmarshal([]byte(out), &st)
			require.Nil(t, err)
			if !assert.NotNil(t, st.Err) {
				return
			}
			if !assert.Equal(t, result.ServerError, *st.Err) {
				return
			}
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if the output format is unknown", func(t *testing.T) {
			postsServer(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `[]`)
			})

			_, err := runCLI(t, "list", "-o", "xml")

			var ferr UnknownFormatError
			if !assert.ErrorAs(t, err, &ferr) {
				return
			}
			if !assert.Equal(t, "xml", ferr.Format) {
				return
			}
		})

		t.Run("if the config file does not exist", func(t *testing.T) {
			_, err := runCLI(t, "list", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
			if !assert.True(t, errors.Is(err, os.ErrNotExist)) {
				return
			}
		})
	})
}

func TestRun_Create(t *testing.T) {
	t.Run("will render the created post", func(t *testing.T) {
		t.Run("if the server accepts the post", func(t *testing.T) {
			postsServer(t, func(w http.ResponseWriter, r *http.Request) {
				var p post.Post
				err := json.NewDecoder(r.Body).Decode(&p)
				if err != nil || r.Method != http.MethodPost {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				p.ID = 101
				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(p)
			})

			out, err := runCLI(t, "create", "--id", "1", "--title", "T", "--body", "B", "--user-id", "2", "-o", "json")
			if !assert.Nil(t, err) {
				return
			}

			var st viewmodel.State
			err = json.Unmarshal([]byte(out), &st)
			require.Nil(t, err)

			expected := viewmodel.State{
				Posts: []post.Post{{ID: 101, Title: "T", Body: "B", UserID: 2}},
			}
			if !assert.Equal(t, expected, st) {
				return
			}
		})
	})

	t.Run("will not send a request", func(t *testing.T) {
		t.Run("if the id is not an integer", func(t *testing.T) {
			var calls atomic.Int32
			postsServer(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusCreated)
			})

			out, err := runCLI(t, "create", "--id", "abc", "--title", "T", "--body", "B", "--user-id", "2")

			var verr *post.ValidationError
			if !assert.ErrorAs(t, err, &verr) {
				return
			}
			if !assert.Contains(t, verr.Fields, "id") {
				return
			}
			if !assert.Empty(t, out) {
				return
			}
			if !assert.Equal(t, int32(0), calls.Load()) {
				return
			}
		})
	})

	t.Run("will return the network error", func(t *testing.T) {
		t.Run("if the server reports a conflict", func(t *testing.T) {
			postsServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
			})

			out, err := runCLI(t, "create", "--id", "1", "--title", "T", "--body", "B", "--user-id", "2")

			var oerr OperationError
			if !assert.ErrorAs(t, err, &oerr) {
				return
			}
			if !assert.Equal(t, result.Conflict, oerr.Err) {
				return
			}
			if !assert.True(t, strings.HasPrefix(out, "Error: CONFLICT")) {
				return
			}
		})
	})
}

func TestRender(t *testing.T) {
	t.Run("will write an error line before the table", func(t *testing.T) {
		t.Run("if the state has an error", func(t *testing.T) {
			e := result.Unauthorized
			var buf bytes.Buffer
			err := render(&buf, "table", viewmodel.State{Err: &e})
			if !assert.Nil(t, err) {
				return
			}

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if !assert.Len(t, lines, 2) {
				return
			}
			if !assert.Equal(t, "Error: UNAUTHORIZED", lines[0]) {
				return
			}
		})
	})

	t.Run("will omit the error", func(t *testing.T) {
		t.Run("if the state has no error", func(t *testing.T) {
			var buf bytes.Buffer
			err := render(&buf, "json", viewmodel.State{})
			if !assert.Nil(t, err) {
				return
			}
			if !assert.NotContains(t, buf.String(), `"error"`) {
				return
			}
		})
	})
}

func TestRun_errorReporting(t *testing.T) {
	t.Run("will write the error to errOut", func(t *testing.T) {
		t.Run("if only a post run hook fails", func(t *testing.T) {
			postsServer(t, func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `[]`)
			})

			hookErr := errors.New("failed to flush spans")
			var out, errOut bytes.Buffer
			s := &session{
				out:    &out,
				errOut: &errOut,
				postRuns: []func(context.Context) error{
					func(context.Context) error { return hookErr },
				},
			}

			err := execute(context.Background(), s, []string{"list"})
			if !assert.ErrorIs(t, err, hookErr) {
				return
			}
			if !assert.Contains(t, errOut.String(), "Error:") {
				return
			}
			if !assert.Contains(t, errOut.String(), hookErr.Error()) {
				return
			}
		})

		t.Run("if the command fails", func(t *testing.T) {
			var errOut bytes.Buffer
			err := Run(context.Background(), []string{"list", "--config", filepath.Join(t.TempDir(), "missing.yaml")}, io.Discard, &errOut)
			if !assert.Error(t, err) {
				return
			}
			if !assert.Equal(t, 1, strings.Count(errOut.String(), "Error:")) {
				return
			}
		})
	})
}

func TestReadConfig(t *testing.T) {
	t.Run("will not set a transport timeout", func(t *testing.T) {
		t.Run("if no timeout is configured", func(t *testing.T) {
			cfg, err := readConfig("")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, time.Duration(0), cfg.HTTP.Timeout) {
				return
			}
		})
	})

	t.Run("will set the transport timeout", func(t *testing.T) {
		t.Run("if the environment sets one", func(t *testing.T) {
			t.Setenv("POSTBOARD_HTTP_TIMEOUT", "2s")

			cfg, err := readConfig("")
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, 2*time.Second, cfg.HTTP.Timeout) {
				return
			}
		})
	})
}
