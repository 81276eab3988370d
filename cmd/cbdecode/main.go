package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/ffi-bridge/buffer"
	"github.com/wippyai/ffi-bridge/decoder"
	"github.com/wippyai/ffi-bridge/resource"
	"github.com/wippyai/ffi-bridge/shape"
	"github.com/wippyai/ffi-bridge/value"
)

func main() {
	var (
		fixtureFile = flag.String("fixture", "", "Path to fixture JSON file")
		threadSafe  = flag.Bool("thread-safe", false, "Decode as if called off the host thread (copies byte arrays)")
		verbose     = flag.Bool("v", false, "Enable debug logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *fixtureFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: cbdecode -fixture <file.json> [-thread-safe] [-v]")
		fmt.Fprintln(os.Stderr, "       cbdecode -fixture <file.json> -i  (interactive mode)")
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger = l
		decoder.SetLogger(l)
	}
	defer func() { _ = logger.Sync() }()

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*fixtureFile, *threadSafe, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*fixtureFile, *threadSafe, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newDecoder(s *session, logger *zap.Logger) (*decoder.Decoder, *resource.Table) {
	handles := resource.NewTable()
	handles.Subscribe(resource.LogObserver(logger))
	d := decoder.New(s.mem, decoder.Options{
		Handles: handles,
		Buffers: buffer.Default,
	})
	return d, handles
}

func run(fixtureFile string, threadSafe bool, logger *zap.Logger) error {
	ctx := context.Background()

	fx, params, err := loadFixture(fixtureFile)
	if err != nil {
		return err
	}

	s, err := newSession(ctx, fx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	d, handles := newDecoder(s, logger)
	defer handles.Close()

	fmt.Printf("Fixture: %s\n", fixtureFile)
	fmt.Printf("Segments: %d\n", len(fx.Memory))
	fmt.Printf("Memory: %d bytes\n\n", s.mem.Mem.Size())

	failed := 0
	for _, r := range decodeAll(d, params, threadSafe) {
		fmt.Println(formatResult(r))
		if r.err != nil {
			failed++
		}
	}

	if n := handles.Len(); n > 0 {
		fmt.Printf("\nHandles: %d\n", n)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d params failed to decode", failed, len(params))
	}
	return nil
}

func formatResult(r decoded) string {
	head := fmt.Sprintf("%s: %s = ", r.param.name, shape.Describe(r.param.shape))
	if r.err != nil {
		return head + "error: " + r.err.Error()
	}
	return head + value.Format(r.value)
}
