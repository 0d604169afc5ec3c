package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/isbul/app-core/internal/bootstrap"
	"github.com/isbul/app-core/internal/domain/view"
	"github.com/isbul/app-core/internal/ports"
	"github.com/isbul/app-core/internal/service"
)

// isbul-shell is a line-oriented driver for the view/session controller:
// it wires the configured storage and API adapters, restores the
// persisted session, and lets you navigate the state machine by hand.

func main() {
	logger := bootstrap.InitLogger()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	core, err := bootstrap.NewCore(&cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := core.CloseStore(); cerr != nil {
			logger.ErrorContext(ctx, "close storage failed", "error", cerr)
		}
	}()

	core.Controller.Start(ctx)
	printState(core.Controller)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := dispatch(ctx, core, cmd, args); err != nil {
			fmt.Println("error:", err)
			continue
		}
		printState(core.Controller)

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
	return scanner.Err()
}

func dispatch(ctx context.Context, core *bootstrap.Core, cmd string, args []string) error {
	ctrl := core.Controller
	switch cmd {
	case "help":
		printHelp(os.Stdout)
		return nil
	case "nav":
		if len(args) < 1 {
			return errors.New("usage: nav <view> [listing-id]")
		}
		var params *view.Params
		if len(args) > 1 {
			var id int64
			if _, err := fmt.Sscanf(args[1], "%d", &id); err != nil {
				return fmt.Errorf("listing id %q: %w", args[1], err)
			}
			params = &view.Params{ListingID: &id}
		}
		ctrl.Navigate(view.View(args[0]), params)
		return nil
	case "back":
		ctrl.GoBack()
		return nil
	case "login":
		if len(args) != 2 {
			return errors.New("usage: login <email> <password>")
		}
		return ctrl.Login(ctx, ports.Credentials{Email: args[0], Password: args[1]})
	case "logout":
		ctrl.OnLogout(ctx)
		return nil
	case "refresh":
		if core.Refresher.Refresh(ctx) {
			fmt.Println("profile refreshed")
		} else {
			fmt.Println("profile not refreshed")
		}
		return nil
	case "tabs":
		printTabs(os.Stdout, ctrl)
		return nil
	case "state":
		return nil // printState runs after every command
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

func printState(ctrl *service.Controller) {
	sess := ctrl.Session()
	who := "guest"
	if sess != nil {
		who = fmt.Sprintf("%s (%s)", sess.Email, sess.Role)
	}
	fmt.Printf("view=%s user=%s tabbar=%v\n", ctrl.CurrentView(), who, ctrl.TabBarVisible())
}

func printTabs(w io.Writer, ctrl *service.Controller) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, tab := range ctrl.Tabs() {
		marker := ""
		if tab.Active {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", tab.Key, tab.Label, marker)
	}
	_ = tw.Flush()
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, `commands:
  nav <view> [listing-id]   request a transition (guards apply)
  back                      follow the view's back edge
  login <email> <password>  authenticate against the backend
  logout                    destroy the session
  refresh                   re-fetch the profile (generation-checked)
  tabs                      print the derived tab bar
  state                     print the current state
  quit                      exit`)
}
