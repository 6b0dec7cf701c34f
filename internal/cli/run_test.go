package cli

import "testing"

func TestRunDispatch(t *testing.T) {
	if code := Run(nil); code != 2 {
		t.Fatalf("no args: expected exit 2, got %d", code)
	}
	if code := Run([]string{"no-such-command"}); code != 2 {
		t.Fatalf("unknown command: expected exit 2, got %d", code)
	}
	if code := Run([]string{"version"}); code != 0 {
		t.Fatalf("version: expected exit 0, got %d", code)
	}
	if code := Run([]string{"help"}); code != 0 {
		t.Fatalf("help: expected exit 0, got %d", code)
	}
}

func TestRedirectAdminLifecycle(t *testing.T) {
	db := t.TempDir() + "/cli.db"

	if code := Run([]string{"redirect", "add", "--db", db, "--from", "/old", "--to", "/new"}); code != 0 {
		t.Fatalf("redirect add: expected exit 0, got %d", code)
	}
	if code := Run([]string{"redirect", "add", "--db", db, "--from", "/old", "--to", "/other"}); code != 1 {
		t.Fatalf("duplicate active source: expected exit 1, got %d", code)
	}
	if code := Run([]string{"redirect", "list", "--db", db}); code != 0 {
		t.Fatalf("redirect list: expected exit 0, got %d", code)
	}
	if code := Run([]string{"redirect", "rm", "--db", db}); code != 2 {
		t.Fatalf("rm without id: expected exit 2, got %d", code)
	}
}

func TestAPIKeyAdminLifecycle(t *testing.T) {
	db := t.TempDir() + "/cli.db"

	if code := Run([]string{"apikey", "create", "--db", db, "--name", "ops"}); code != 0 {
		t.Fatalf("apikey create: expected exit 0, got %d", code)
	}
	if code := Run([]string{"apikey", "list", "--db", db}); code != 0 {
		t.Fatalf("apikey list: expected exit 0, got %d", code)
	}
	if code := Run([]string{"apikey", "revoke", "--db", db, "--id", "missing"}); code != 1 {
		t.Fatalf("revoke missing id: expected exit 1, got %d", code)
	}
}
