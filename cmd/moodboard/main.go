// Command moodboard uploads an image to a MoodBoard backend and prints the
// detected mood with matching music.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sarabsinghsaluja/moodboard-agent/pkg/agent"
	"github.com/sarabsinghsaluja/moodboard-agent/pkg/agent/render"
)

func main() {
	server := flag.String("server", "http://localhost:8000", "MoodBoard backend URL")
	limit := flag.Int("limit", 20, "number of tracks to request (1-100)")
	playlists := flag.Bool("playlists", false, "also search for matching playlists")
	timeout := flag.Duration("timeout", 90*time.Second, "request timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <image>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	session := agent.NewSession(agent.Config{
		BaseURL:          *server,
		Timeout:          *timeout,
		TrackLimit:       *limit,
		IncludePlaylists: *playlists,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fmt.Printf("Analyzing %s...\n", path)
	state, err := session.Pick(ctx, path, file)
	file.Close()
	if err != nil && state.Phase != agent.PhaseFailed {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if state.Phase != agent.PhaseSucceeded {
		fmt.Fprintf(os.Stderr, "%s\n", state.Err)
		os.Exit(1)
	}

	render.Result(os.Stdout, state.Result)
}
