// The hook binary is invoked once per host-CLI hook firing. It must never
// block or fail the host CLI: whatever happens on the wire, it exits 0. The
// single exception is an unrecognized hook type, which is a caller bug.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pixelpet.ai/internal/hookclient"
	"pixelpet.ai/internal/tuning"
)

func main() {
	var (
		input      = flag.String("input", "", "hook payload JSON (default: stdin)")
		socketPath = flag.String("socket", tuning.DefaultSocketPath(), "daemon socket path")
		logPath    = flag.String("log", defaultLogPath(), "side log for swallowed errors")
	)
	flag.StringVar(input, "i", *input, "short for -input")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hook [flags] <hook_type>")
		os.Exit(1)
	}
	hookType := flag.Arg(0)

	raw := []byte(*input)
	if len(raw) == 0 {
		stdin, err := io.ReadAll(os.Stdin)
		if err == nil {
			raw = stdin
		}
	}

	ev, err := hookclient.ParseHookPayload(hookType, raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hook: %v\n", err)
		os.Exit(1)
	}

	sender := &hookclient.Sender{SocketPath: *socketPath, LogPath: *logPath}
	// Absent daemon and transport failures alike are deliberately silent.
	_ = sender.Send(ev)
}

func defaultLogPath() string {
	return filepath.Join(os.TempDir(), "pixelpet_hook_errors.log")
}
