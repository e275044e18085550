// Command orderctl runs maintenance tasks against the shared order state.
//
//	orderctl recompute [-store NAME]
//	orderctl drain [-ingest]    (without -ingest the payload is only shown)
//	orderctl orders [-store NAME] [-status STATUS]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"storefront-orders/internal/app"
	"storefront-orders/internal/config"
	"storefront-orders/internal/services"

	"github.com/schollz/progressbar/v3"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.Load("orderctl")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infra, err := app.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer infra.Close()
	admin := app.NewAdmin(infra.Deps)

	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "recompute":
		err = recompute(ctx, admin, args)
	case "drain":
		err = drain(ctx, admin, args)
	case "orders":
		err = orders(ctx, admin, args)
	default:
		usage()
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: orderctl recompute|drain|orders [flags]")
	os.Exit(2)
}

func recompute(ctx context.Context, a *app.Admin, args []string) error {
	fs := flag.NewFlagSet("recompute", flag.ExitOnError)
	store := fs.String("store", "", "recompute a single store")
	_ = fs.Parse(args)

	stores := []string{*store}
	if *store == "" {
		ids, err := a.Ledger.StoreIDs(ctx)
		if err != nil {
			return err
		}
		stores = ids
	}

	bar := progressbar.Default(int64(len(stores)), "recomputing stats")
	for _, s := range stores {
		if _, err := a.Stats.Recompute(ctx, s); err != nil {
			return fmt.Errorf("store %q: %w", s, err)
		}
		_ = bar.Add(1)
	}
	return nil
}

func drain(ctx context.Context, a *app.Admin, args []string) error {
	return drainTo(ctx, os.Stdout, a, args)
}

// drainTo prints the pending Mailbox payload. Only -ingest takes it out of
// the Mailbox, and then it lands in the Ledger.
func drainTo(ctx context.Context, w io.Writer, a *app.Admin, args []string) error {
	fs := flag.NewFlagSet("drain", flag.ContinueOnError)
	ingest := fs.Bool("ingest", false, "take the order out of the mailbox and store it in the ledger")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*ingest {
		p, ok, err := a.Mailbox.Peek(ctx)
		if err != nil {
			return err
		}
		if !ok {
			log.Println("mailbox is empty")
			return nil
		}
		return printJSON(w, p)
	}

	p, ok, err := a.Mailbox.Drain(ctx)
	if err != nil {
		return err
	}
	if !ok {
		log.Println("mailbox is empty")
		return nil
	}
	o, err := a.Service.Ingest(ctx, p)
	if err != nil {
		_ = printJSON(w, p)
		return err
	}
	return printJSON(w, o)
}

func orders(ctx context.Context, a *app.Admin, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	store := fs.String("store", "", "filter by store")
	status := fs.String("status", "", "filter by status")
	search := fs.String("q", "", "search customer name or order id")
	_ = fs.Parse(args)

	list, err := a.Service.ListFiltered(ctx, services.ListFilter{StoreID: *store, Status: *status, Search: *search})
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, list)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
