package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/craftline/sitecms/internal/content"
	"github.com/craftline/sitecms/internal/store/sqlite"
)

func runRedirectAdmin(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: sitecms redirect <add|list|rm> [flags]")
		return 2
	}
	switch args[0] {
	case "add":
		return runRedirectAdd(ctx, args[1:])
	case "list":
		return runRedirectList(ctx, args[1:])
	case "rm":
		return runRedirectRemove(ctx, args[1:])
	default:
		fmt.Fprintln(os.Stderr, "unknown redirect command:", args[0])
		return 2
	}
}

func runRedirectAdd(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("redirect-add", flag.ContinueOnError)
	var dbPath, from, to string
	var code int
	var inactive bool
	fs.StringVar(&dbPath, "db", envOr("SITECMS_DB_PATH", "./sitecms.db"), "sqlite db path")
	fs.StringVar(&from, "from", "", "source path, e.g. /old-kitchens")
	fs.StringVar(&to, "to", "", "destination path or absolute URL")
	fs.IntVar(&code, "code", 301, "redirect status code: 301 or 302")
	fs.BoolVar(&inactive, "inactive", false, "create the rule disabled")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if from == "" || to == "" {
		fmt.Fprintln(os.Stderr, "missing --from or --to")
		return 2
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "db error:", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	rule, err := store.CreateRedirect(ctx, content.RedirectRule{
		SourcePath:  from,
		Destination: to,
		StatusCode:  code,
		Active:      !inactive,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "add redirect:", err)
		return 1
	}
	fmt.Printf("%s\t%s -> %s (%d)\n", rule.ID, rule.SourcePath, rule.Destination, rule.Code())
	return 0
}

func runRedirectList(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("redirect-list", flag.ContinueOnError)
	var dbPath string
	fs.StringVar(&dbPath, "db", envOr("SITECMS_DB_PATH", "./sitecms.db"), "sqlite db path")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "db error:", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	rules, err := store.ListRedirects(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list redirects:", err)
		return 1
	}
	for _, r := range rules {
		fmt.Printf("%s\t%s -> %s (%d)\tactive=%t\n", r.ID, r.SourcePath, r.Destination, r.Code(), r.Active)
	}
	return 0
}

func runRedirectRemove(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("redirect-rm", flag.ContinueOnError)
	var dbPath, id string
	fs.StringVar(&dbPath, "db", envOr("SITECMS_DB_PATH", "./sitecms.db"), "sqlite db path")
	fs.StringVar(&id, "id", "", "rule id")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if id == "" {
		fmt.Fprintln(os.Stderr, "missing --id")
		return 2
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "db error:", err)
		return 1
	}
	defer func() { _ = store.Close() }()

	if err := store.DeleteRedirect(ctx, id); err != nil {
		fmt.Fprintln(os.Stderr, "remove redirect:", err)
		return 1
	}
	fmt.Println("removed:", id)
	return 0
}
