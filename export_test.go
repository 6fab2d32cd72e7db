package git

import "time"

// Test hooks exposing resolved option state without widening the public
// API. Only the test binary links these.

// ResolvedCommandConfig mirrors commandConfig with exported fields so
// black-box tests can assert on option outcomes.
type ResolvedCommandConfig struct {
	Name        string
	Dir         string
	Env         []string
	ExtraEnv    []string
	HasStdin    bool
	Stdio       StdioMode
	LogDir      string
	HasStdout   bool
	HasStderr   bool
	StopTimeout time.Duration
	LockPath    string
	HasJournal  bool
}

// ResolveCommandConfigForTest applies opts over the defaults and returns
// the outcome.
func ResolveCommandConfigForTest(opts ...CommandOption) ResolvedCommandConfig {
	cfg := defaultCommandConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return ResolvedCommandConfig{
		Name:        cfg.name,
		Dir:         cfg.dir,
		Env:         cfg.env,
		ExtraEnv:    cfg.extraEnv,
		HasStdin:    cfg.stdin != nil,
		Stdio:       cfg.stdio,
		LogDir:      cfg.logDir,
		HasStdout:   cfg.stdout != nil,
		HasStderr:   cfg.stderr != nil,
		StopTimeout: cfg.stopTimeout,
		LockPath:    cfg.lockPath,
		HasJournal:  cfg.journal != nil,
	}
}

// ResolvedServiceConfig mirrors serviceConfig with exported fields.
type ResolvedServiceConfig struct {
	Dir           string
	Env           []string
	LogDir        string
	Port          int
	HasRegistry   bool
	ReadyInterval time.Duration
	ReadyTimeout  time.Duration
	StopTimeout   time.Duration
}

// ResolveServiceConfigForTest applies opts over the defaults and returns
// the outcome.
func ResolveServiceConfigForTest(opts ...ServiceOption) ResolvedServiceConfig {
	cfg := defaultServiceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return ResolvedServiceConfig{
		Dir:           cfg.dir,
		Env:           cfg.env,
		LogDir:        cfg.logDir,
		Port:          cfg.port,
		HasRegistry:   cfg.ports != nil,
		ReadyInterval: cfg.readyInterval,
		ReadyTimeout:  cfg.readyTimeout,
		StopTimeout:   cfg.stopTimeout,
	}
}
