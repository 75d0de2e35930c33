package cli_test

import (
	"testing"

	"github.com/vennverse/formfill/internal/cli"
)

func TestParseArgsServeNeedsNoTarget(t *testing.T) {
	t.Parallel()

	args, err := cli.ParseArgs([]string{"-mode", "serve"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args.Mode != "serve" {
		t.Fatalf("mode = %q", args.Mode)
	}
}

func TestParseArgsFillRequiresTargetAndAccount(t *testing.T) {
	t.Parallel()

	if _, err := cli.ParseArgs([]string{"-mode", "fill"}); err == nil {
		t.Fatal("expected error without -target")
	}
	if _, err := cli.ParseArgs([]string{"-mode", "fill", "-target", "https://x.test/apply"}); err == nil {
		t.Fatal("expected error without -account")
	}

	args, err := cli.ParseArgs([]string{"-mode", "Fill", "-target", "https://x.test/apply", "-account", "ada"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args.Mode != "fill" || args.Target != "https://x.test/apply" || args.Account != "ada" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestParseArgsRejectsUnknownMode(t *testing.T) {
	t.Parallel()

	if _, err := cli.ParseArgs([]string{"-mode", "crawl"}); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
