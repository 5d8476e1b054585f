package voyant

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/result"
)

// ContentRenderer transforms markdown before it is written. This allows TUI
// rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// Runner drives a Wizard over provided IO. It owns the prompt loop so the
// core package stays frontend-agnostic and tests can script a full session
// through an in-memory reader and writer.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Renderer ContentRenderer

	// Headless exits after the first completed search instead of offering
	// another round.
	Headless bool
}

// NewRunner creates a Runner bound to Stdin/Stdout.
func NewRunner() *Runner {
	return &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
	}
}

// Run executes the wizard loop until the user quits, input is exhausted, or
// the context is cancelled. EOF on input is a normal exit, not an error.
func (r *Runner) Run(ctx context.Context, w *Wizard) error {
	reader := bufio.NewReader(r.Input)

	changed := make(chan struct{}, 1)
	w.OnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer w.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch w.Step() {
		case StepRoute:
			err = r.runRoute(reader, w)
		case StepDates:
			err = r.runDates(reader, w)
		case StepPreferences:
			err = r.runPreferences(ctx, reader, w)
		case StepProcessing:
			err = r.runProcessing(ctx, w, changed)
		case StepResults:
			done, rerr := r.runResults(reader, w)
			if rerr != nil {
				err = rerr
			} else if done {
				return nil
			}
		}

		if errors.Is(err, io.EOF) || errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

var errQuit = errors.New("quit requested")

func (r *Runner) runRoute(reader *bufio.Reader, w *Wizard) error {
	r.printf("\n## Step 1 of 3: Route\n\n")

	origin, err := r.prompt(reader, "Where are you flying from?")
	if err != nil {
		return err
	}
	w.SetOrigin(origin)

	destination, err := r.prompt(reader, "Where are you flying to?")
	if err != nil {
		return err
	}
	w.SetDestination(destination)

	if err := w.Advance(); err != nil {
		r.printf("Both origin and destination are required.\n")
	}
	return nil
}

func (r *Runner) runDates(reader *bufio.Reader, w *Wizard) error {
	r.printf("\n## Step 2 of 3: Dates\n\n")

	departure, err := r.prompt(reader, "When do you want to leave? (e.g. 2026-09-12)")
	if err != nil {
		return err
	}
	if isBack(departure) {
		w.Retreat()
		return nil
	}

	ret, err := r.prompt(reader, "When do you want to come back?")
	if err != nil {
		return err
	}
	if isBack(ret) {
		w.Retreat()
		return nil
	}

	w.SetDates(departure, ret)
	if err := w.Advance(); err != nil {
		r.printf("Both dates are required.\n")
	}
	return nil
}

func (r *Runner) runPreferences(ctx context.Context, reader *bufio.Reader, w *Wizard) error {
	r.printf("\n## Step 3 of 3: Preferences\n\n")
	for i, c := range domain.CabinClasses {
		r.printf("  %d. %s\n", i+1, c)
	}

	choice, err := r.prompt(reader, "Pick a cabin class (1-4)")
	if err != nil {
		return err
	}
	if isBack(choice) {
		w.Retreat()
		return nil
	}
	if idx, cerr := strconv.Atoi(choice); cerr == nil && idx >= 1 && idx <= len(domain.CabinClasses) {
		_ = w.SetCabinClass(domain.CabinClasses[idx-1])
	} else if choice != "" {
		r.printf("Keeping %s.\n", w.Form().CabinClass)
	}

	passengers, err := r.prompt(reader, fmt.Sprintf("How many passengers? (%d-%d)", domain.MinPassengers, domain.MaxPassengers))
	if err != nil {
		return err
	}
	if isBack(passengers) {
		w.Retreat()
		return nil
	}
	if n, cerr := strconv.Atoi(passengers); cerr == nil {
		if perr := w.SetPassengers(n); perr != nil {
			r.printf("%s\n", perr)
			return nil
		}
	}

	form := w.Form()
	r.printf("\nSearching %s to %s, %s to %s, %s, %d passenger(s)...\n",
		form.Origin, form.Destination, form.DepartureDate, form.ReturnDate, form.CabinClass, form.Passengers)

	if err := w.Submit(ctx); err != nil {
		r.printf("\nCould not start the search: %s\n", w.SubmitError())
	}
	return nil
}

// runProcessing waits for the poll loop to move the wizard off the
// processing step, echoing status messages as they arrive.
func (r *Runner) runProcessing(ctx context.Context, w *Wizard, changed <-chan struct{}) error {
	lastMsg := ""
	if plan := w.Plan(); plan != nil && plan.StatusMessage != "" {
		lastMsg = plan.StatusMessage
		r.printf("\n%s\n", lastMsg)
	}

	for w.Step() == StepProcessing {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
			if plan := w.Plan(); plan != nil && plan.StatusMessage != "" && plan.StatusMessage != lastMsg {
				lastMsg = plan.StatusMessage
				r.printf("%s\n", lastMsg)
			}
		}
	}
	return nil
}

func (r *Runner) runResults(reader *bufio.Reader, w *Wizard) (bool, error) {
	plan := w.Plan()

	if plan == nil || plan.State == domain.RunFailed || plan.State == domain.RunNotFound {
		r.printf("\n## Search failed\n\n")
		if plan != nil {
			r.render(plan.FailureMessage())
		}
	} else {
		r.printf("\n## Your trip\n\n")
		normalized := result.Normalize(plan.FinalOutput)
		r.render(result.Summary(plan.FinalOutput, normalized))
	}

	if r.Headless {
		return true, nil
	}

	answer, err := r.prompt(reader, "\nPlan another trip? (y/n)")
	if err != nil {
		return false, err
	}
	if strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes") {
		w.Reset()
		return false, nil
	}
	return true, nil
}

// prompt writes a question and reads one trimmed line. A literal "quit" or
// "exit" aborts the session.
func (r *Runner) prompt(reader *bufio.Reader, question string) (string, error) {
	r.printf("%s\n> ", question)
	text, err := reader.ReadString('\n')
	if err != nil && text == "" {
		return "", err
	}
	text = strings.TrimSpace(text)
	if strings.EqualFold(text, "quit") || strings.EqualFold(text, "exit") {
		return "", errQuit
	}
	return text, nil
}

func isBack(s string) bool {
	return strings.EqualFold(s, "back")
}

// render passes markdown through the renderer when one is configured,
// falling back to the raw text on render failure.
func (r *Runner) render(markdown string) {
	output := markdown
	if r.Renderer != nil {
		if rendered, err := r.Renderer(markdown); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(output))
}

func (r *Runner) printf(format string, args ...any) {
	fmt.Fprintf(r.Output, format, args...)
}
