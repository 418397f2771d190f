// Package session runs the interactive question and answer loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/swibrow/intent/internal/classifier"
	"github.com/swibrow/intent/internal/text"
	"github.com/swibrow/intent/internal/ui"
)

const (
	openingPrompt  = "HI! How can we help you today?: "
	continuePrompt = "Is there anything else? (yes/no) "
	nextPrompt     = "Great! What else can I help with?: "
	farewell       = "Thank you for your interest. Hope to see you again!"
)

// LineReader reads one line of input after showing prompt. It returns
// io.EOF once input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Recorder is told about every phrase the session classified.
type Recorder func(ctx context.Context, sessionID, phrase string, res classifier.Result)

type Session struct {
	ID string

	classifier *classifier.Classifier
	in         LineReader
	out        io.Writer
	record     Recorder
	quiet      bool
}

type Option func(*Session)

func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.record = r }
}

// WithQuiet disables styling of responses.
func WithQuiet(quiet bool) Option {
	return func(s *Session) { s.quiet = quiet }
}

func New(c *classifier.Classifier, in LineReader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		classifier: c,
		in:         in,
		out:        out,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run asks for a phrase, answers it and keeps going until the user says
// "no", input ends or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	phrase, err := s.read(openingPrompt)
	if err != nil {
		return s.finish(err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.respond(ctx, phrase)

		phrase, err = s.next(ctx)
		if err != nil {
			return s.finish(err)
		}
	}
}

// next asks whether there is more until it gets a yes or no. A yes is
// followed by reading the next phrase.
func (s *Session) next(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		answer, err := s.read(continuePrompt)
		if err != nil {
			return "", err
		}
		switch answer {
		case "no":
			return "", io.EOF
		case "yes":
			return s.read(nextPrompt)
		}
	}
}

func (s *Session) read(prompt string) (string, error) {
	line, err := s.in.ReadLine(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text.Normalize(line)), nil
}

func (s *Session) respond(ctx context.Context, phrase string) {
	res := s.classifier.Classify(phrase)
	if s.quiet {
		ui.DisplayQuiet(s.out, res)
	} else {
		ui.Display(s.out, res)
	}
	if s.record != nil {
		s.record(ctx, s.ID, phrase, res)
	}
}

// finish turns the end of input into a polite goodbye.
func (s *Session) finish(err error) error {
	if !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading input: %w", err)
	}
	fmt.Fprintln(s.out, farewell)
	return nil
}
