package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/rshade/pxpantheon/internal/choice"
)

// ErrNoAnswer indicates a Scripted prompter ran out of answers.
var ErrNoAnswer = errors.New("no scripted answer left")

// Scripted answers questions from a fixed queue, in order. An empty string answer
// selects the default. Every question asked is recorded.
type Scripted struct {
	mu        sync.Mutex
	answers   []string
	questions []string
}

// NewScripted returns a prompter that replays answers.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: append([]string(nil), answers...)}
}

// Questions returns the questions asked so far.
func (s *Scripted) Questions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.questions...)
}

// Remaining returns how many answers are unused.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

func (s *Scripted) next(question string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = append(s.questions, question)
	if len(s.answers) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoAnswer, question)
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

// Ask implements Prompter.
func (s *Scripted) Ask(_ context.Context, question, def string, validate Validator) (string, error) {
	answer, err := s.next(question)
	if err != nil {
		return "", err
	}
	if answer == "" {
		answer = def
	}
	if validate != nil {
		if err := validate(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

// Confirm implements Prompter. Answers are parsed like terminal input ("y", "no", "").
func (s *Scripted) Confirm(_ context.Context, question string, def bool) (bool, error) {
	answer, err := s.next(question)
	if err != nil {
		return false, err
	}
	if b, perr := strconv.ParseBool(answer); perr == nil {
		return b, nil
	}
	return parseYesNo(answer, def), nil
}

// Choose implements Prompter.
func (s *Scripted) Choose(_ context.Context, question string, options choice.Table, def string) (string, error) {
	if options.Len() == 0 {
		return "", ErrNoOptions
	}
	answer, err := s.next(question)
	if err != nil {
		return "", err
	}
	key, ok := resolveChoice(answer, options.Entries(), def)
	if !ok {
		return "", fmt.Errorf("value %q is not one of the options", answer)
	}
	return key, nil
}
