// Command undag runs the program encoded by a Git repository's commit
// history: every commit is one instruction, execution starts at the
// commit tagged _start and halts at the commit tagged _end.
//
// Usage:
//
//	undag [-stats] [-debug] [-timeout duration] <repo-path>
//
// -debug formats the error with %+v and prints the commit the program
// counter was at on failure, instead of a single-line message. For a
// repository load failure %+v shows the full cause chain and stack trace;
// a runtime error prints its one-line message.
//
// -stats prints the instruction count and elapsed wall time on exit.
//
// -timeout bounds total run time; a program still executing past it is
// aborted with a non-zero exit code. The zero value (the default) means
// no bound.
//
// Exit codes: 0 on a clean halt at _end, 1 on an in-language runtime
// error, 2 if the repository could not be opened or read.
package main
