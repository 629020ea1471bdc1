package execcmd

import "strings"

// Option is a single --name value pair, or a bare --name flag when Bare is set.
// An empty Value on a non-bare option is passed through as an empty argument.
type Option struct {
	Name  string
	Value string
	Bare  bool
}

// CommandSpec describes one invocation of an external CLI.
type CommandSpec struct {
	SubCommand string
	Args       []string
	Options    []Option

	// Silent suppresses echoing output to the terminal. Output is still captured.
	Silent bool
	// CaptureOutput keeps stdout in the ExecutionResult. Silent implies capture.
	CaptureOutput bool
}

// NewCommand starts a spec for the given sub-command and positional arguments.
func NewCommand(subCommand string, args ...string) *CommandSpec {
	return &CommandSpec{SubCommand: subCommand, Args: append([]string(nil), args...)}
}

// Arg appends positional arguments.
func (s *CommandSpec) Arg(args ...string) *CommandSpec {
	s.Args = append(s.Args, args...)
	return s
}

// Option appends a --name value pair. Leading dashes on name are ignored.
func (s *CommandSpec) Option(name, value string) *CommandSpec {
	s.Options = append(s.Options, Option{Name: name, Value: value})
	return s
}

// Flag appends a bare --name flag.
func (s *CommandSpec) Flag(name string) *CommandSpec {
	s.Options = append(s.Options, Option{Name: name, Bare: true})
	return s
}

// Quiet marks the command silent: nothing is echoed, output is captured.
func (s *CommandSpec) Quiet() *CommandSpec {
	s.Silent = true
	s.CaptureOutput = true
	return s
}

// Capture keeps stdout in the result while still echoing it.
func (s *CommandSpec) Capture() *CommandSpec {
	s.CaptureOutput = true
	return s
}

// Argv renders the command line: sub-command, positional arguments in order, then options in order.
// Duplicate option names are rendered as supplied.
func (s *CommandSpec) Argv() []string {
	argv := make([]string, 0, 1+len(s.Args)+2*len(s.Options))
	if s.SubCommand != "" {
		argv = append(argv, s.SubCommand)
	}
	argv = append(argv, s.Args...)
	for _, opt := range s.Options {
		argv = append(argv, "--"+strings.TrimLeft(opt.Name, "-"))
		if !opt.Bare {
			argv = append(argv, opt.Value)
		}
	}
	return argv
}

// String renders the command for messages and logs.
func (s *CommandSpec) String() string {
	return strings.Join(s.Argv(), " ")
}

// captures reports whether stdout must be kept in the result.
func (s *CommandSpec) captures() bool {
	return s.Silent || s.CaptureOutput
}
