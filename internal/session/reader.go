package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	prompt "github.com/c-bata/go-prompt"

	"github.com/swibrow/intent/internal/ui"
)

// BufferedReader reads lines from any reader, echoing prompts to out. It is
// used when input is piped rather than typed. Lines may be any length.
type BufferedReader struct {
	in  *bufio.Reader
	out io.Writer
}

func NewBufferedReader(in io.Reader, out io.Writer) *BufferedReader {
	return &BufferedReader{in: bufio.NewReader(in), out: out}
}

func (r *BufferedReader) ReadLine(p string) (string, error) {
	fmt.Fprint(r.out, ui.Prompt(r.out, p))
	line, err := r.in.ReadString('\n')
	if err != nil {
		// A final line without a newline still counts; EOF comes on the next call.
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// keyState tracks the keys that ended one prompt.Input call. go-prompt
// returns "" both for an empty Enter and for Ctrl-D, and swallows Ctrl-C
// while the terminal is in raw mode.
type keyState struct {
	submitted   bool
	eof         bool
	interrupted bool
}

func (k *keyState) keyBinds() []prompt.KeyBind {
	submit := func(*prompt.Buffer) { k.submitted = true }
	return []prompt.KeyBind{
		{Key: prompt.Enter, Fn: submit},
		{Key: prompt.ControlJ, Fn: submit},
		{Key: prompt.ControlM, Fn: submit},
		{Key: prompt.ControlC, Fn: func(*prompt.Buffer) { k.interrupted = true }},
		{Key: prompt.ControlD, Fn: func(b *prompt.Buffer) {
			if b.Text() == "" {
				k.eof = true
			}
		}},
	}
}

// exit makes prompt.Input return as soon as Ctrl-C was seen.
func (k *keyState) exit(string, bool) bool {
	return k.interrupted || k.eof
}

// resolve turns what prompt.Input returned into a ReadLine result. Input
// that came back empty without Enter was ended by Ctrl-D.
func (k *keyState) resolve(line string) (string, error) {
	switch {
	case k.interrupted, k.eof:
		return "", io.EOF
	case line != "", k.submitted:
		return line, nil
	default:
		return "", io.EOF
	}
}

// PromptReader reads from the terminal with completion over the catalog
// vocabulary. Ctrl-D on an empty line and Ctrl-C both end input.
type PromptReader struct {
	suggestions []prompt.Suggest
}

func NewPromptReader(vocabulary []string) *PromptReader {
	s := make([]prompt.Suggest, 0, len(vocabulary)+2)
	for _, w := range vocabulary {
		s = append(s, prompt.Suggest{Text: w})
	}
	s = append(s,
		prompt.Suggest{Text: "yes", Description: "Ask something else"},
		prompt.Suggest{Text: "no", Description: "End the session"},
	)
	return &PromptReader{suggestions: s}
}

func (r *PromptReader) ReadLine(p string) (string, error) {
	var keys keyState
	line := prompt.Input(p, r.complete,
		prompt.OptionAddKeyBind(keys.keyBinds()...),
		prompt.OptionSetExitCheckerOnInput(keys.exit),
	)
	return keys.resolve(line)
}

func (r *PromptReader) complete(d prompt.Document) []prompt.Suggest {
	return r.suggest(d.GetWordBeforeCursor())
}

func (r *PromptReader) suggest(word string) []prompt.Suggest {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil
	}
	return prompt.FilterHasPrefix(r.suggestions, word, true)
}
