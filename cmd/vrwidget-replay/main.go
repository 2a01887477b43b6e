// Command vrwidget-replay runs a JSON pointer script against the stock
// browser chrome without opening a window and prints every routed event.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/phanxgames/vrwidget"
	"golang.org/x/term"
)

const helpBanner = `
vrwidget-replay

Replays a pointer script against the browser, URL bar and menu panels
and prints the events each widget receives.

`

// pipeName is the file name that indicates stdin is being used.
const pipeName = "-"

var (
	configPath = flag.String("config", "", "TOML config file (defaults when empty)")
	scriptPath = flag.String("script", pipeName, "JSON input script, - for stdin")
	startURL   = flag.String("url", "about:blank", "URL loaded in the browser panel")
	maxFrames  = flag.Int("frames", 600, "Stop after this many frames")
	debug      = flag.Bool("debug", false, "Log per-frame stats")
	plain      = flag.Bool("plain", false, "Disable colored output")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpBanner)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := vrwidget.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = vrwidget.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("vrwidget-replay: %v", err)
		}
	}
	if *debug {
		cfg.Debug = true
	}

	data, err := readScript(*scriptPath)
	if err != nil {
		log.Fatalf("vrwidget-replay: %v", err)
	}
	runner, err := vrwidget.LoadScript(data)
	if err != nil {
		log.Fatalf("vrwidget-replay: %v", err)
	}

	color := !*plain && term.IsTerminal(int(os.Stdout.Fd()))
	res, err := replay(cfg, runner, *startURL, *maxFrames)
	if err != nil {
		log.Fatalf("vrwidget-replay: %v", err)
	}
	newPrinter(os.Stdout, color).print(res)
	if !res.finished {
		os.Exit(1)
	}
}

func readScript(path string) ([]byte, error) {
	if path == pipeName {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read script from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return data, nil
}
