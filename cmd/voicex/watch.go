// Copyright 2026 The VoiceX Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/voicex-foundation/voicex/bridge"
	"github.com/voicex-foundation/voicex/cmd/voicex/cli"
	"github.com/voicex-foundation/voicex/lib/codec"
	"github.com/voicex-foundation/voicex/lib/telemetry"
	"github.com/voicex-foundation/voicex/lib/usagestats"
)

const (
	defaultServer   = "http://127.0.0.1:8080"
	defaultInterval = time.Second
	// pollTimeout bounds one round of requests.
	pollTimeout = 5 * time.Second
)

func watchCommand(a *app) *cli.Command {
	var (
		server   string
		interval time.Duration
	)
	return &cli.Command{
		Name:    "watch",
		Summary: "Live dashboard for a running voicexd",
		Description: "Poll a voicexd API and show connection state, a sparkline of each\n" +
			"telemetry channel, and usage totals. Press q to quit.",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("watch", pflag.ContinueOnError)
			flagSet.StringVar(&server, "server", defaultServer, "voicexd base URL")
			flagSet.DurationVar(&interval, "interval", defaultInterval, "poll interval")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}
			if interval <= 0 {
				return fmt.Errorf("--interval must be positive, got %s", interval)
			}
			client, err := newWatchClient(server, a.httpClient)
			if err != nil {
				return err
			}
			program := tea.NewProgram(newWatchModel(client, interval), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = program.Run()
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
}

// watchClient fetches CBOR from the voicexd API.
type watchClient struct {
	base   *url.URL
	client *http.Client
}

func newWatchClient(server string, client *http.Client) (*watchClient, error) {
	base, err := url.Parse(strings.TrimRight(server, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing --server: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("--server must be an http or https URL, got %q", server)
	}
	return &watchClient{base: base, client: client}, nil
}

func (c *watchClient) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.base.JoinPath(path)
	target.RawQuery = query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", codec.ContentType)

	response, err := c.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", path, response.Status)
	}
	if err := codec.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// snapshot is one round of dashboard data.
type snapshot struct {
	samples []telemetry.Sample
	status  bridge.Status
	stats   usagestats.Stats
}

// fetch collects samples newer than since plus current status and
// stats.
func (c *watchClient) fetch(ctx context.Context, since uint64, limit int) (snapshot, error) {
	var result snapshot
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if since > 0 {
		query.Set("since", strconv.FormatUint(since, 10))
	}
	if err := c.get(ctx, "/api/data", query, &result.samples); err != nil {
		return snapshot{}, err
	}
	if err := c.get(ctx, "/api/status", nil, &result.status); err != nil {
		return snapshot{}, err
	}
	if err := c.get(ctx, "/api/stats", nil, &result.stats); err != nil {
		return snapshot{}, err
	}
	return result, nil
}
