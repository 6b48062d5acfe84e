/*
Package runner drives a single sorting run from a terminal or a pipe.

It wires a Controller to an output Handler, starts the run, cancels it on
SIGINT/SIGTERM and reports the resulting summary.

# Key Components

  - Runner: one-shot driver returning the run summary.
  - Handler: a Renderer that can also print the final summary.
  - TextHandler: vertical bars colored by highlight role, sized to the terminal.
  - JSONHandler: NDJSON, one step event per line.

# Usage

	r := runner.NewRunner(
		runner.WithHandler(runner.NewTextHandler(os.Stdout)),
		runner.WithDelay(20*time.Millisecond),
	)

	summary, err := r.Run(ctx, input.Random(), "quick")
	if err != nil {
		log.Fatal(err)
	}
*/
package runner
