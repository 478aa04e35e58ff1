package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sethvargo/go-envconfig"
	"github.com/wallacegibbon/stopgate/internal/approval"
	"github.com/wallacegibbon/stopgate/internal/config"
	debugpkg "github.com/wallacegibbon/stopgate/internal/debug"
	"github.com/wallacegibbon/stopgate/internal/gate"
	"github.com/wallacegibbon/stopgate/internal/logging"
	"github.com/wallacegibbon/stopgate/internal/planconfig"
	"github.com/wallacegibbon/stopgate/internal/provider"
	"github.com/wallacegibbon/stopgate/internal/reflection"
	"github.com/wallacegibbon/stopgate/internal/shell"
	"github.com/wallacegibbon/stopgate/internal/skills"
	"github.com/wallacegibbon/stopgate/internal/state"
	"github.com/wallacegibbon/stopgate/internal/tasks"
	"github.com/wallacegibbon/stopgate/internal/terminal"
	"github.com/wallacegibbon/stopgate/internal/vcs"
	"github.com/wallacegibbon/stopgate/internal/verify"
	"go.uber.org/zap"
)

// App holds the collaborators shared by both hooks
type App struct {
	Env    config.Env
	Dir    string
	Logger *zap.Logger
	Runner *shell.Runner
	Repo   *vcs.Repo
	Client *provider.Client

	closeLog func()
}

// Options adjust Setup; the zero value reads the process environment
type Options struct {
	Dir      string
	DebugAPI bool
	Lookuper envconfig.Lookuper
}

// Setup initializes the common app components
func Setup(ctx context.Context, opts Options) (*App, error) {
	env, err := config.LoadEnv(ctx, opts.Lookuper)
	if err != nil {
		return nil, err
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	logger, closeLog, err := logging.New(env.Logging())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	providerConfig, err := env.ProviderConfig()
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to get provider config: %w", err)
	}
	if opts.DebugAPI {
		providerConfig.DebugAPI = true
	}

	var httpClient *http.Client
	if providerConfig.DebugAPI {
		httpClient = debugpkg.NewHTTPClient(logger.Named("api"))
	}

	runner := shell.New(dir)
	return &App{
		Env:      env,
		Dir:      dir,
		Logger:   logger,
		Runner:   runner,
		Repo:     vcs.Open(dir, runner),
		Client:   provider.New(providerConfig, httpClient, logger.Named("provider")),
		closeLog: closeLog,
	}, nil
}

// Close flushes the logger
func (a *App) Close() {
	if a.closeLog != nil {
		a.closeLog()
	}
}

// ProjectRoot is the repository root, or the project directory outside git
func (a *App) ProjectRoot() string {
	if root := a.Repo.Root(); root != "" {
		return root
	}
	return a.Dir
}

// Verifier builds the verification agent
func (a *App) Verifier() *verify.Agent {
	return &verify.Agent{
		Completer:      a.Client,
		Tasks:          &tasks.Beads{Runner: a.Runner},
		Changes:        a.Repo,
		CredentialName: a.Client.Config.CredentialName(),
		Logger:         a.Logger.Named("verify"),
	}
}

// Gate builds the quality gate orchestrator
func (a *App) Gate() *gate.Orchestrator {
	return &gate.Orchestrator{
		Dir:        a.Dir,
		Changes:    a.Repo,
		Runner:     a.Runner,
		Verifier:   a.Verifier(),
		LoadConfig: planconfig.Load,
		Logger:     a.Logger.Named("gate"),
	}
}

// StateStore returns the reflection state store
func (a *App) StateStore() state.Store {
	return state.Store{Path: a.Env.StatePath()}
}

// Reflection builds the reflection pipeline reading approval from in
func (a *App) Reflection(in *os.File, out io.Writer) *reflection.Pipeline {
	styles := terminal.NewStyles(false)
	if f, ok := out.(*os.File); ok {
		styles = terminal.ForFile(f)
	}

	var committer reflection.Committer
	if a.Repo.Available() {
		committer = a.Repo
	}

	return &reflection.Pipeline{
		State:      a.StateStore(),
		Transcript: a.Env.Transcript,
		Analyzer: &reflection.Agent{
			Completer:      a.Client,
			CredentialName: a.Client.Config.CredentialName(),
			Logger:         a.Logger.Named("reflect"),
		},
		Prompter: approval.New(in, out),
		Skill:    skills.Document{Path: a.Env.SkillPath(a.ProjectRoot())},
		VCS:      committer,
		Out:      out,
		Styles:   styles,
		Logger:   a.Logger.Named("reflect"),
	}
}
