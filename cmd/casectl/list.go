package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/TracecatHQ/caseboard/internal/caselist"
	"github.com/TracecatHQ/caseboard/internal/events"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cases with filters, sorting, and paging",
	RunE: func(cmd *cobra.Command, args []string) error {
		if workspaceID == "" {
			return fmt.Errorf("workspace is required (set --workspace or CASEBOARD_WORKSPACE)")
		}

		engine := caselist.New(caseClient, workspaceID)
		if err := applyListFlags(cmd, engine); err != nil {
			return err
		}

		interactive, _ := cmd.Flags().GetBool("interactive")
		watch, _ := cmd.Flags().GetBool("watch")
		interval, _ := cmd.Flags().GetDuration("interval")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := engine.Refresh(ctx); err != nil {
			return fmt.Errorf("fetching cases: %w", err)
		}
		printPage(engine)

		switch {
		case interactive:
			return pageLoop(ctx, engine)
		case watch:
			return watchLoop(ctx, engine, interval)
		}
		return nil
	},
}

// applyListFlags translates command flags into engine state. Include and
// exclude variants of the same filter are mutually exclusive.
func applyListFlags(cmd *cobra.Command, engine *caselist.Engine) error {
	if search, _ := cmd.Flags().GetString("search"); search != "" {
		engine.SetSearchQuery(search)
	}

	type tokenFlag struct {
		include string
		exclude string
		set     func([]string, caselist.Mode)
	}
	for _, tf := range []tokenFlag{
		{"status", "exclude-status", engine.SetStatusFilter},
		{"priority", "exclude-priority", engine.SetPriorityFilter},
		{"severity", "exclude-severity", engine.SetSeverityFilter},
		{"assignee", "exclude-assignee", engine.SetAssigneeFilter},
		{"tag", "exclude-tag", engine.SetTagFilter},
	} {
		include, _ := cmd.Flags().GetStringSlice(tf.include)
		exclude, _ := cmd.Flags().GetStringSlice(tf.exclude)
		if len(include) > 0 && len(exclude) > 0 {
			return fmt.Errorf("--%s and --%s cannot be combined", tf.include, tf.exclude)
		}
		if len(include) > 0 {
			tf.set(include, caselist.ModeInclude)
		}
		if len(exclude) > 0 {
			tf.set(exclude, caselist.ModeExclude)
		}
	}

	for _, mode := range []struct {
		flag string
		mode caselist.Mode
	}{
		{"dropdown", caselist.ModeInclude},
		{"exclude-dropdown", caselist.ModeExclude},
	} {
		tokens, _ := cmd.Flags().GetStringArray(mode.flag)
		grouped := make(map[string][]string)
		for _, tok := range tokens {
			def, opt, ok := strings.Cut(tok, ":")
			if !ok || def == "" || opt == "" {
				return fmt.Errorf("invalid --%s value %q (expected <definition>:<option>)", mode.flag, tok)
			}
			grouped[def] = append(grouped[def], opt)
		}
		for def, opts := range grouped {
			engine.SetDropdownFilter(def, opts, mode.mode)
		}
	}

	for _, sf := range []struct {
		flag string
		set  func(caselist.SortDirection)
	}{
		{"sort-priority", engine.SetPrioritySort},
		{"sort-severity", engine.SetSeveritySort},
		{"sort-assignee", engine.SetAssigneeSort},
		{"sort-tag", engine.SetTagSort},
	} {
		v, _ := cmd.Flags().GetString(sf.flag)
		switch v {
		case "":
		case "asc":
			sf.set(caselist.SortAscending)
		case "desc":
			sf.set(caselist.SortDescending)
		default:
			return fmt.Errorf("invalid --%s value %q (want asc or desc)", sf.flag, v)
		}
	}

	if v, _ := cmd.Flags().GetString("updated-within"); v != "" {
		bound, err := parseDateBound(v)
		if err != nil {
			return fmt.Errorf("--updated-within: %w", err)
		}
		engine.SetUpdatedAfter(bound)
	}
	if v, _ := cmd.Flags().GetString("created-within"); v != "" {
		bound, err := parseDateBound(v)
		if err != nil {
			return fmt.Errorf("--created-within: %w", err)
		}
		engine.SetCreatedAfter(bound)
	}

	if oldest, _ := cmd.Flags().GetBool("oldest"); oldest {
		engine.SetUpdatedAtSort(caselist.SortAscending)
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		engine.SetLimit(limit)
	}
	return nil
}

// parseDateBound accepts a relative preset (1d, 3d, 1w, 1m) or an explicit
// range "start..end" / "start.." / "..end" with YYYY-MM-DD dates.
func parseDateBound(v string) (caselist.DateBound, error) {
	switch caselist.DatePreset(v) {
	case caselist.Preset1Day, caselist.Preset3Days, caselist.Preset1Week, caselist.Preset1Month:
		return caselist.DateBound{Preset: caselist.DatePreset(v)}, nil
	}

	startStr, endStr, ok := strings.Cut(v, "..")
	if !ok {
		return caselist.DateBound{}, fmt.Errorf("invalid value %q (want 1d, 3d, 1w, 1m, or start..end)", v)
	}
	var bound caselist.DateBound
	if startStr != "" {
		t, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return caselist.DateBound{}, fmt.Errorf("invalid start date %q: %w", startStr, err)
		}
		bound.Start = &t
	}
	if endStr != "" {
		t, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return caselist.DateBound{}, fmt.Errorf("invalid end date %q: %w", endStr, err)
		}
		bound.End = &t
	}
	return bound, nil
}

func printPage(engine *caselist.Engine) {
	cases := engine.Cases()
	if jsonOutput {
		printCaseListJSON(cases)
		return
	}
	printCaseListTable(cases)
	fmt.Printf("\npage %d (%d cases)", engine.CurrentPage()+1, len(cases))
	if engine.HasNextPage() {
		fmt.Print(", more available")
	}
	fmt.Println()
}

// pageLoop reads paging commands from stdin: n (next), p (previous), r
// (refresh), q (quit).
func pageLoop(ctx context.Context, engine *caselist.Engine) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("[n]ext [p]rev [r]efresh [q]uit> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		var err error
		switch strings.TrimSpace(scanner.Text()) {
		case "n":
			err = engine.GoToNextPage(ctx)
		case "p":
			err = engine.GoToPreviousPage(ctx)
		case "r":
			err = engine.Refresh(ctx)
		case "q":
			return nil
		default:
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		printPage(engine)
	}
}

// watchLoop keeps the current page fresh until interrupted. With a NATS
// URL configured it refreshes on change events (debounced); otherwise it
// falls back to interval polling.
func watchLoop(ctx context.Context, engine *caselist.Engine, interval time.Duration) error {
	if natsURL := os.Getenv("CASEBOARD_NATS_URL"); natsURL != "" {
		return watchNATS(ctx, engine, natsURL)
	}
	return watchPoll(ctx, engine, interval)
}

// watchNATS subscribes to case change events and re-fetches with debounce.
func watchNATS(ctx context.Context, engine *caselist.Engine, natsURL string) error {
	// reconnectCh receives a signal when the NATS client reconnects after
	// a disconnect, so we can immediately re-query for missed events.
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			fmt.Fprintf(os.Stderr, "nats: disconnected: %v\n", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			fmt.Fprintln(os.Stderr, "nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("cases.>")
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	// Drain the timer channel in case it fired between NewTimer and Stop.
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0) // immediate re-query
		case <-debounce.C:
			if err := engine.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			fmt.Println()
			printPage(engine)
		}
	}
}

// watchPoll re-fetches the current page on an interval until interrupted.
func watchPoll(ctx context.Context, engine *caselist.Engine, interval time.Duration) error {
	poller := caselist.NewPoller(interval, func(pollCtx context.Context) {
		if err := engine.Refresh(pollCtx); err != nil {
			if pollCtx.Err() == nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			return
		}
		fmt.Println()
		printPage(engine)
	})
	poller.Start()
	defer poller.Stop()

	<-ctx.Done()
	return nil
}

func init() {
	listCmd.Flags().String("search", "", "substring match on summary and description")
	listCmd.Flags().StringSliceP("status", "s", nil, "filter by status (repeatable)")
	listCmd.Flags().StringSlice("exclude-status", nil, "exclude statuses (repeatable)")
	listCmd.Flags().StringSliceP("priority", "p", nil, "filter by priority (repeatable)")
	listCmd.Flags().StringSlice("exclude-priority", nil, "exclude priorities (repeatable)")
	listCmd.Flags().StringSlice("severity", nil, "filter by severity (repeatable)")
	listCmd.Flags().StringSlice("exclude-severity", nil, "exclude severities (repeatable)")
	listCmd.Flags().StringSliceP("assignee", "a", nil, "filter by assignee ID, or 'unassigned' (repeatable)")
	listCmd.Flags().StringSlice("exclude-assignee", nil, "exclude assignees (repeatable)")
	listCmd.Flags().StringSliceP("tag", "t", nil, "filter by tag ref (repeatable)")
	listCmd.Flags().StringSlice("exclude-tag", nil, "exclude tag refs (repeatable)")
	listCmd.Flags().StringArrayP("dropdown", "d", nil, "filter by dropdown value (<definition>:<option>, repeatable)")
	listCmd.Flags().StringArray("exclude-dropdown", nil, "exclude dropdown values (<definition>:<option>, repeatable)")

	listCmd.Flags().String("sort-priority", "", "sort by priority (asc or desc)")
	listCmd.Flags().String("sort-severity", "", "sort by severity (asc or desc)")
	listCmd.Flags().String("sort-assignee", "", "sort by assignee email (asc or desc)")
	listCmd.Flags().String("sort-tag", "", "sort by first tag name (asc or desc)")

	listCmd.Flags().String("updated-within", "", "updated-at bound (1d, 3d, 1w, 1m, or start..end)")
	listCmd.Flags().String("created-within", "", "created-at bound (1d, 3d, 1w, 1m, or start..end)")

	listCmd.Flags().Bool("oldest", false, "oldest first instead of newest first")
	listCmd.Flags().Int("limit", 0, "page size (default 20)")
	listCmd.Flags().BoolP("interactive", "i", false, "interactive paging (n/p/r/q)")
	listCmd.Flags().Bool("watch", false, "re-fetch the current page periodically")
	listCmd.Flags().Duration("interval", caselist.DefaultPollInterval, "watch polling interval")
}
