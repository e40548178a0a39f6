package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"pduchat/internal/directory"
	"strconv"
	"strings"
)

var errQuit = errors.New("quit")

// chat is the part of client.Client the command loop drives.
type chat interface {
	SendText(text string) error
	SetNickname(name string) error
	SetKey(key string) error
	SetCompress(on bool)
	SetEncrypt(on bool)
	Compress() bool
	Encrypt() bool
	Discover(ctx context.Context) ([]directory.Entry, error)
	Servers() ([]directory.Entry, bool)
	SelectServer(ctx context.Context, entry directory.Entry)
}

const help = `commands:
  /list           refresh the server list
  /server N       join the N-th listed server
  /who            show who is on the server
  /nick NAME      change nickname
  /key KEY        change the encryption key
  /compress       toggle compression
  /encrypt        toggle encryption
  /quit           leave
anything else is sent as a message`

func commandLoop(ctx context.Context, c chat, r *roster, lines <-chan string, w io.Writer) error {
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return errQuit
			}
			if err := handleLine(ctx, c, r, line, w); err != nil {
				if errors.Is(err, errQuit) {
					return err
				}
				fmt.Fprintf(w, "error: %v\n", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func handleLine(ctx context.Context, c chat, r *roster, line string, w io.Writer) error {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil
	}
	if !strings.HasPrefix(line, "/") {
		return c.SendText(line)
	}

	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case "/quit":
		return errQuit
	case "/help":
		fmt.Fprintln(w, help)
	case "/list":
		// the listing itself arrives as a discovery event
		_, err := c.Discover(ctx)
		return err
	case "/server":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return fmt.Errorf("usage: /server N")
		}
		entries, ok := c.Servers()
		if !ok {
			if entries, err = c.Discover(ctx); err != nil {
				return err
			}
		}
		if n > len(entries) {
			return fmt.Errorf("no server %d, %d listed", n, len(entries))
		}
		c.SelectServer(ctx, entries[n-1])
		fmt.Fprintf(w, "joining %s\n", entries[n-1].Name)
	case "/who":
		names := r.list()
		if len(names) == 0 {
			fmt.Fprintln(w, "nobody here")
			return nil
		}
		fmt.Fprintln(w, strings.Join(names, ", "))
	case "/nick":
		if arg == "" {
			return fmt.Errorf("usage: /nick NAME")
		}
		return c.SetNickname(arg)
	case "/key":
		if err := c.SetKey(arg); err != nil {
			return err
		}
		fmt.Fprintln(w, "key changed")
	case "/compress":
		on, err := toggle(arg, c.Compress())
		if err != nil {
			return err
		}
		c.SetCompress(on)
		fmt.Fprintf(w, "compression %s\n", onOff(on))
	case "/encrypt":
		on, err := toggle(arg, c.Encrypt())
		if err != nil {
			return err
		}
		c.SetEncrypt(on)
		fmt.Fprintf(w, "encryption %s\n", onOff(on))
	default:
		return fmt.Errorf("unknown command %s, try /help", name)
	}
	return nil
}

// toggle flips cur, or sets it from an explicit on/off argument.
func toggle(arg string, cur bool) (bool, error) {
	switch strings.ToLower(arg) {
	case "":
		return !cur, nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return cur, fmt.Errorf("expected on or off, got %q", arg)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
