// Package execcmd builds and runs external command lines.
//
// A CommandSpec describes one invocation of a vendor CLI: a sub-command, positional
// arguments and --option value pairs, rendered in exactly the order supplied. An Invoker
// runs the command through a Runner and reports an ExecutionResult; a non-zero exit is a
// failed result, not a Go error. Shell runs whole pipelines through sh -c with the same
// contract. The Runner interface is the seam tests replace to avoid spawning processes.
package execcmd
