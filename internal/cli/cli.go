// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package cli implements the postboard command line, a renderer which
// drives the posts view model.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/z5labs/postboard/http/httpclient"
	"github.com/z5labs/postboard/internal/try"
	"github.com/z5labs/postboard/pkg/otelconfig"
	"github.com/z5labs/postboard/postapi"
	"github.com/z5labs/postboard/repository"
	"github.com/z5labs/postboard/result"
	"github.com/z5labs/postboard/viewmodel"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OperationError is returned when the posts operation itself failed.
// The state, including the error, has already been rendered.
type OperationError struct {
	Err result.NetworkError
}

// Error implements the [builtin.error] interface.
func (e OperationError) Error() string {
	return fmt.Sprintf("posts operation failed: %s", e.Err)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e OperationError) Unwrap() error {
	return e.Err
}

// session holds everything built from the config for a single invocation.
type session struct {
	out    io.Writer
	errOut io.Writer
	format string

	vm       *viewmodel.ViewModel
	postRuns []func(context.Context) error
}

// Run executes the postboard command line with the given args. Any
// error, including one from a post run hook, is also written to errOut.
func Run(ctx context.Context, args []string, out, errOut io.Writer) error {
	s := &session{
		out:    out,
		errOut: errOut,
	}
	return execute(ctx, s, args)
}

func execute(ctx context.Context, s *session, args []string) (err error) {
	defer func() {
		if err != nil {
			fmt.Fprintln(s.errOut, "Error:", err)
		}
	}()

	// post run hooks always run, even if the command fails or panics
	defer func() {
		errs := make([]error, 0, len(s.postRuns))
		for _, f := range s.postRuns {
			errs = append(errs, f(ctx))
		}
		err = errors.Join(append([]error{err}, errs...)...)
	}()
	defer try.Recover(&err)

	cmd := buildCmd(s)
	cmd.SetArgs(args)
	cmd.SetOut(s.out)
	cmd.SetErr(s.errOut)
	return cmd.ExecuteContext(ctx)
}

func buildCmd(s *session) *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "postboard",
		Short:         "List and create posts on a remote posts resource",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.init(cmd.Context(), cfgPath)
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to a yaml config file")
	root.PersistentFlags().StringVarP(&s.format, "output", "o", "table", "output format: table, json or yaml")

	root.AddCommand(
		listCmd(s),
		createCmd(s),
	)
	return root
}

func (s *session) init(ctx context.Context, cfgPath string) error {
	cfg, err := readConfig(cfgPath)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	s.postRuns = append(s.postRuns, func(context.Context) error {
		// syncing stderr fails on some platforms and is not actionable
		_ = log.Sync()
		return nil
	})

	tracing, err := otelconfig.FromConfig(cfg.OTel, s.errOut)
	if err != nil {
		return err
	}
	shutdown, err := otelconfig.Install(ctx, tracing)
	if err != nil {
		return err
	}
	s.postRuns = append(s.postRuns, shutdown)

	opts := []httpclient.Option{
		httpclient.Name("postapi"),
		httpclient.Logger(log),
		httpclient.Timeout(cfg.HTTP.Timeout),
	}
	if cb := cfg.HTTP.Circuit; cb.Enabled {
		opts = append(
			opts,
			httpclient.TripAfter(cb.TripAfter),
			httpclient.OpenStateTimeout(cb.OpenTimeout),
			httpclient.HalfOpenRequests(cb.HalfOpenRequests),
		)
	}

	client := postapi.NewClient(
		postapi.BaseURL(cfg.API.BaseURL),
		postapi.HTTPClient(httpclient.New(opts...)),
		postapi.Logger(log.Named("postapi")),
	)
	s.vm = viewmodel.New(
		repository.New(client),
		viewmodel.Logger(log.Named("viewmodel")),
		viewmodel.OnChange(func(st viewmodel.State) {
			log.Debug("state changed", zap.Int("posts", len(st.Posts)), zap.Bool("is_loading", st.IsLoading))
		}),
	)
	return nil
}

// drive runs the view model owner loop for as long as f is running.
func (s *session) drive(ctx context.Context, f func(context.Context) error) error {
	vmCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(vmCtx)
	g.Go(func() error {
		return s.vm.Run(gctx)
	})
	g.Go(func() (err error) {
		defer cancel()
		defer try.Recover(&err)

		return f(gctx)
	})
	return g.Wait()
}

// settle waits for every in-flight operation and renders the final state.
func (s *session) settle(ctx context.Context) error {
	st, err := s.vm.Await(ctx, func(st viewmodel.State) bool {
		return !st.IsLoading
	})
	if err != nil {
		return err
	}

	err = render(s.out, s.format, st)
	if err != nil {
		return err
	}
	if st.Err != nil {
		return OperationError{Err: *st.Err}
	}
	return nil
}

func listCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Load and display every post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.drive(cmd.Context(), func(ctx context.Context) error {
				err := s.vm.Dispatch(ctx, viewmodel.LoadPosts{})
				if err != nil {
					return err
				}
				return s.settle(ctx)
			})
		},
	}
}

func createCmd(s *session) *cobra.Command {
	var draft struct {
		id, title, body, userID string
	}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new post from the given fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.drive(cmd.Context(), func(ctx context.Context) error {
				events := []viewmodel.Event{
					viewmodel.UpdateID{Text: draft.id},
					viewmodel.UpdateTitle{Text: draft.title},
					viewmodel.UpdateBody{Text: draft.body},
					viewmodel.UpdateUserID{Text: draft.userID},
					viewmodel.CreatePost{},
				}
				for _, ev := range events {
					err := s.vm.Dispatch(ctx, ev)
					if err != nil {
						return err
					}
				}
				return s.settle(ctx)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&draft.id, "id", "", "post id")
	flags.StringVar(&draft.title, "title", "", "post title")
	flags.StringVar(&draft.body, "body", "", "post body")
	flags.StringVar(&draft.userID, "user-id", "", "id of the user who owns the post")
	return cmd
}
