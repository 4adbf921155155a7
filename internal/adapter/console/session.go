// Package console runs the intake conversation on a terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"dogdiet/internal/app"
)

// sessionID is the draft key used for the single console user.
const sessionID int64 = 0

const banner = "Do you have a chunky dog? Let's build a diet plan for the goodest boi or gurl."

// Session reads answers line by line from in and writes prompts, notices and
// the final report to out.
type Session struct {
	intake *app.IntakeService
	in     *bufio.Scanner
	out    io.Writer
}

// NewSession creates a Session.
func NewSession(intake *app.IntakeService, in io.Reader, out io.Writer) *Session {
	return &Session{intake: intake, in: bufio.NewScanner(in), out: out}
}

// Run asks every question until a plan can be computed, prints the report and
// returns the result. It returns io.ErrUnexpectedEOF if input ends early.
func (s *Session) Run(ctx context.Context) (*app.DietResult, error) {
	fmt.Fprintf(s.out, "%s\n\n", banner)

	reply, err := s.intake.Start(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.intake.Cancel(context.WithoutCancel(ctx), sessionID) }()

	for {
		fmt.Fprint(s.out, reply.Prompt+" ")

		line, err := s.readLine(ctx)
		if err != nil {
			return nil, err
		}
		if reply, err = s.intake.Handle(ctx, sessionID, line); err != nil {
			return nil, err
		}
		if reply.Notice != "" {
			fmt.Fprintln(s.out, reply.Notice)
		}
		if reply.Result != nil {
			fmt.Fprintln(s.out)
			if err := app.RenderReport(s.out, reply.Result); err != nil {
				return nil, err
			}
			return reply.Result, nil
		}
	}
}

func (s *Session) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.ErrUnexpectedEOF
	}
	return s.in.Text(), nil
}
