package run

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"pduchat/internal/capture"
	"pduchat/internal/client"
	"pduchat/internal/conf"
	"pduchat/internal/flog"
	"syscall"

	"golang.org/x/sync/errgroup"
)

var _ chat = (*client.Client)(nil)

func startClient(cfg *conf.Conf, server int) error {
	flog.Infof("Starting chat client as %s...", cfg.Nickname)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		select {
		case <-sig:
			flog.Infof("Shutdown signal received, leaving chat...")
			cancel()
		case <-ctx.Done():
		}
	}()

	var opts []client.Option
	if cfg.Capture.Enabled() {
		rec, err := capture.Create(cfg.Capture.File, cfg.Capture.Snaplen)
		if err != nil {
			return err
		}
		defer rec.Close()
		opts = append(opts, client.WithRecorder(rec))
		flog.Infof("Recording traffic to %s", cfg.Capture.File)
	}

	c, err := client.New(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	defer c.Shutdown()

	users := &roster{}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return printEvents(ctx, c, users, os.Stdout)
	})
	g.Go(func() error {
		if entries, err := c.Discover(ctx); err == nil && server > 0 {
			if server > len(entries) {
				flog.Warnf("server %d not in the list of %d", server, len(entries))
			} else {
				c.SelectServer(ctx, entries[server-1])
			}
		}
		return commandLoop(ctx, c, users, readLines(os.Stdin), os.Stdout)
	})

	err = g.Wait()
	if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// readLines feeds stdin to the command loop. The goroutine may outlive the
// loop, blocked on input; it exits with the process.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			lines <- sc.Text()
		}
		if err := sc.Err(); err != nil {
			flog.Errorf("reading input: %v", err)
		}
	}()
	return lines
}

func printEvents(ctx context.Context, c *client.Client, users *roster, w io.Writer) error {
	for {
		select {
		case ev := <-c.Events():
			users.apply(ev)
			if line := render(ev); line != "" {
				if _, err := io.WriteString(w, line+"\n"); err != nil {
					return err
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
