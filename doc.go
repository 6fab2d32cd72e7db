// Package git provides argv construction and process plumbing: a growable
// vector of owned strings that always maintains a nil-terminated argv view,
// plus the collaborators that consume such vectors — one-shot commands,
// long-running services with TCP readiness, and an invocation journal.
//
// # Building argument vectors
//
// Strvec is the core type. Its zero value is an empty, ready-to-use vector
// whose view is always terminated, so it can be handed to argv-scanning
// consumers at any point in its lifetime:
//
//	var argv git.Strvec
//	argv.Push("grep")
//	argv.Pushf("--max-count=%d", 3)
//	argv.Split("-n --color=never")
//	argv.Pushl("pattern", "file.txt")
//
// Detach transfers the terminated backing array to the caller and resets the
// vector for reuse. Argv exposes the live terminated view; Strings converts
// to the plain []string shape os/exec expects.
//
// # Running commands
//
// Command wraps one process launch around a vector:
//
//	var argv git.Strvec
//	argv.Pushl("sh", "-c", "exit 0")
//	cmd, err := git.NewCommand(&argv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := cmd.Run(ctx)
//
// Options control the working directory, environment, stdio routing, run
// locks, and journaling. See NewCommand and the With* functions.
//
// # Services
//
// Service manages a daemon-style child that signals readiness by accepting
// TCP connections on a known port. Group starts several services
// concurrently and stops them in reverse order.
//
// # Journal
//
// Journal records completed invocations in a local SQLite file for later
// inspection: what ran, where, with which exit code, and how long it took.
package git
