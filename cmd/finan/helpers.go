package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/finanmaster/internal/api"
	"github.com/Veraticus/finanmaster/internal/assistant"
	"github.com/Veraticus/finanmaster/internal/cli"
	"github.com/Veraticus/finanmaster/internal/model"
	"github.com/Veraticus/finanmaster/internal/mutation"
	"github.com/Veraticus/finanmaster/internal/store"
	"github.com/spf13/cobra"
)

// newClient creates the backend client and restores the saved session.
func newClient() (*api.Client, error) {
	client, err := api.New(settings.API.BaseURL,
		api.WithTimeout(settings.API.Timeout),
		api.WithLogger(slog.Default()))
	if err != nil {
		return nil, err
	}
	if err := client.LoadSession(settings.Session.File); err != nil {
		slog.Warn("ignoring unreadable session file", "file", settings.Session.File, "error", err)
	}
	return client, nil
}

// newAssistant creates the assistant client and the bridge over it.
func newAssistant() (*assistant.Client, *assistant.Bridge, error) {
	client, err := assistant.NewClient(settings.Assistant.BaseURL,
		api.WithTimeout(settings.Assistant.Timeout),
		api.WithLogger(slog.Default()))
	if err != nil {
		return nil, nil, err
	}
	cfg, err := assistant.ConfigFrom(settings.Assistant)
	if err != nil {
		return nil, nil, err
	}
	return client, assistant.NewBridge(client, cfg, slog.Default()), nil
}

// session bundles what a data command needs: an authenticated client, the
// store it fills and a controller for writes.
type session struct {
	client     *api.Client
	syncer     *store.Syncer
	controller *mutation.Controller
	identity   *model.Identity
}

// openSession checks identity and loads collections. Nothing is loaded when
// none are given.
func openSession(ctx context.Context, collections ...store.Collection) (*session, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	syncer := store.NewSyncer(store.New(slog.Default()), client, slog.Default())
	identity, err := syncer.EnsureIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if err := syncer.RefreshAll(ctx, collections...); err != nil {
		return nil, err
	}

	return &session{
		client:     client,
		syncer:     syncer,
		controller: mutation.NewController(client, syncer, slog.Default()),
		identity:   identity,
	}, nil
}

func (s *session) store() *store.Store {
	return s.syncer.Store()
}

// submit sends the open form of kind and prints the backend's message.
func (s *session) submit(ctx context.Context, out io.Writer, kind mutation.Kind) error {
	result, err := s.controller.Submit(ctx, kind)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, cli.FormatSuccess(result.Message))
	return nil
}

// changed returns the flag's value when the user set it, else fallback.
func changed(cmd *cobra.Command, name, fallback string) string {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return fallback
	}
	return v
}

// prompter reads from the command's input so tests can feed answers.
func prompter(cmd *cobra.Command) *cli.Prompter {
	in := cmd.InOrStdin()
	if f, ok := in.(interface{ Fd() uintptr }); ok && f.Fd() == 0 {
		return cli.NewPrompter(nil, cmd.OutOrStdout())
	}
	return cli.NewPrompter(in, cmd.OutOrStdout())
}
