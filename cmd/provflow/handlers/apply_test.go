package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoesel/provflow/internal/config"
	"github.com/mkoesel/provflow/internal/platform/runner"
	"github.com/mkoesel/provflow/internal/provisioning"
	"github.com/mkoesel/provflow/internal/ui/tui"
	"github.com/mkoesel/provflow/internal/util/prerequisites"
)

func saveAndRestoreFactories(t *testing.T) {
	t.Helper()
	origLoadConfigFile := loadConfigFile
	origFindConfigFile := findConfigFile
	origCheckDefaultPrereqs := checkDefaultPrereqs
	origReadFile := readFile
	origNewLocalRunner := newLocalRunner
	origNewSSHRunner := newSSHRunner
	origRunSequence := runSequence
	origRunTUI := runTUI
	origIsTerminal := isTerminal
	origCheckAllPrereqs := checkAllPrereqs
	origProbeTCP := probeTCP
	origFileExists := fileExists
	origWriteFile := writeFile

	t.Cleanup(func() {
		loadConfigFile = origLoadConfigFile
		findConfigFile = origFindConfigFile
		checkDefaultPrereqs = origCheckDefaultPrereqs
		readFile = origReadFile
		newLocalRunner = origNewLocalRunner
		newSSHRunner = origNewSSHRunner
		runSequence = origRunSequence
		runTUI = origRunTUI
		isTerminal = origIsTerminal
		checkAllPrereqs = origCheckAllPrereqs
		probeTCP = origProbeTCP
		fileExists = origFileExists
		writeFile = origWriteFile
	})
}

// stubRunner satisfies runner.Runner without touching a shell.
type stubRunner struct {
	host string
}

func (r *stubRunner) Run(_ context.Context, _ string) (string, error) { return "", nil }
func (r *stubRunner) Host() string                                    { return r.host }

// quietObserver discards run events.
type quietObserver struct{}

func (quietObserver) Printf(_ string, _ ...interface{}) {}
func (quietObserver) Event(_ provisioning.Event)        {}

func testConfig() *config.Config {
	return &config.Config{
		Name:   "library",
		Runner: "local",
		Database: config.DatabaseConfig{
			Host:        "127.0.0.1",
			Port:        config.DefaultDBPort,
			Name:        config.DefaultDBName,
			User:        config.DefaultDBUser,
			Password:    config.DefaultDBPassword,
			BindAddress: config.DefaultBindAddress,
			SeedFile:    "seed.sql",
		},
		App: config.AppConfig{
			Port:      config.DefaultAppPort,
			SourceDir: "/opt/library",
			Artifact:  "target/library-app.jar",
		},
	}
}

// stubFactories wires every apply factory with quiet fakes so individual
// tests only override what they exercise.
func stubFactories(t *testing.T) {
	t.Helper()
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) { return testConfig(), nil }
	findConfigFile = func() (string, error) { return config.DefaultConfigFile, nil }
	checkDefaultPrereqs = func() *prerequisites.CheckResults { return &prerequisites.CheckResults{} }
	newLocalRunner = func() (runner.Runner, error) { return &stubRunner{host: "localhost"}, nil }
	isTerminal = func() bool { return false }
	runSequence = func(_ *provisioning.Context, stepList []provisioning.Step) (*provisioning.RunResult, error) {
		result := provisioning.NewRunResult()
		for _, step := range stepList {
			result.Add(provisioning.Record{Step: step.Name(), Outcome: provisioning.OutcomeSuccess})
		}
		return result, nil
	}
}

func TestLoadConfig_EmptyPath_NoDefaultFile(t *testing.T) {
	saveAndRestoreFactories(t)

	findConfigFile = func() (string, error) {
		return "", errors.New("config file provflow.yaml not found")
	}

	_, err := loadConfig("")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no config file found")
	assert.Contains(t, err.Error(), "provflow init")
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	saveAndRestoreFactories(t)

	var loadedPath string
	loadConfigFile = func(path string) (*config.Config, error) {
		loadedPath = path
		return testConfig(), nil
	}

	cfg, err := loadConfig("staging.yaml")
	require.NoError(t, err)
	assert.Equal(t, "staging.yaml", loadedPath)
	assert.Equal(t, "library", cfg.Name)
}

func TestLoadTarget_Overrides(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) { return testConfig(), nil }

	cfg, err := loadTarget("provflow.yaml", Options{
		DBHost:    "10.0.0.5",
		DBPort:    3307,
		AppPort:   8080,
		SeedFile:  "other.sql",
		Unguarded: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", cfg.Database.Host)
	assert.Equal(t, 3307, cfg.Database.Port)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "other.sql", cfg.Database.SeedFile)
	assert.False(t, cfg.Guarded())
}

func TestLoadTarget_NoOverridesKeepsConfig(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) { return testConfig(), nil }

	cfg, err := loadTarget("provflow.yaml", Options{})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Database.Host)
	assert.Equal(t, config.DefaultDBPort, cfg.Database.Port)
	assert.True(t, cfg.Guarded())
}

func TestLoadTarget_InvalidOverride(t *testing.T) {
	saveAndRestoreFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) { return testConfig(), nil }

	// Collides with the database port.
	_, err := loadTarget("provflow.yaml", Options{AppPort: config.DefaultDBPort})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "app.port must differ")
}

func TestBuildRunner_Local(t *testing.T) {
	saveAndRestoreFactories(t)

	newLocalRunner = func() (runner.Runner, error) { return &stubRunner{host: "localhost"}, nil }

	r, err := buildRunner(testConfig())
	require.NoError(t, err)
	assert.Equal(t, "localhost", r.Host())
}

func TestBuildRunner_SSH(t *testing.T) {
	saveAndRestoreFactories(t)

	readFile = func(_ string) ([]byte, error) { return []byte("fake key"), nil }

	var got *runner.SSHConfig
	newSSHRunner = func(cfg *runner.SSHConfig) (runner.Runner, error) {
		got = cfg
		return &stubRunner{host: cfg.Host}, nil
	}

	cfg := testConfig()
	cfg.Runner = "ssh"
	cfg.SSH = config.SSHConfig{Host: "203.0.113.10", Port: 2222, User: "deploy", KeyFile: "/keys/deploy"}

	r, err := buildRunner(cfg)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.10", r.Host())

	require.NotNil(t, got)
	assert.Equal(t, 2222, got.Port)
	assert.Equal(t, "deploy", got.User)
	assert.Equal(t, []byte("fake key"), got.PrivateKey)
}

func TestBuildRunner_SSH_MissingKey(t *testing.T) {
	saveAndRestoreFactories(t)

	readFile = func(_ string) ([]byte, error) { return nil, errors.New("no such file") }

	cfg := testConfig()
	cfg.Runner = "ssh"
	cfg.SSH = config.SSHConfig{Host: "203.0.113.10", User: "deploy", KeyFile: "/keys/missing"}

	_, err := buildRunner(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read ssh key")
}

func TestCheckPrerequisites(t *testing.T) {
	t.Run("passes when tools present", func(t *testing.T) {
		saveAndRestoreFactories(t)

		checkDefaultPrereqs = func() *prerequisites.CheckResults {
			return &prerequisites.CheckResults{
				Results: []prerequisites.CheckResult{
					{Tool: prerequisites.Tool{Name: "git", Required: true}, Found: true, Version: "git version 2.43.0"},
				},
			}
		}

		assert.NoError(t, checkPrerequisites(testConfig()))
	})

	t.Run("fails when required tool missing", func(t *testing.T) {
		saveAndRestoreFactories(t)

		checkDefaultPrereqs = func() *prerequisites.CheckResults {
			return &prerequisites.CheckResults{
				Missing: []prerequisites.Tool{{Name: "mvn", Required: true}},
			}
		}

		err := checkPrerequisites(testConfig())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "prerequisites check failed")
	})

	t.Run("skipped for ssh runner", func(t *testing.T) {
		saveAndRestoreFactories(t)

		checkDefaultPrereqs = func() *prerequisites.CheckResults {
			t.Fatal("prerequisites should not run for ssh targets")
			return nil
		}

		cfg := testConfig()
		cfg.Runner = "ssh"
		assert.NoError(t, checkPrerequisites(cfg))
	})

	t.Run("skipped when disabled", func(t *testing.T) {
		saveAndRestoreFactories(t)

		checkDefaultPrereqs = func() *prerequisites.CheckResults {
			t.Fatal("prerequisites should not run when disabled")
			return nil
		}

		cfg := testConfig()
		disabled := false
		cfg.PrerequisitesCheckEnabled = &disabled
		assert.NoError(t, checkPrerequisites(cfg))
	})
}

func TestApply_Success(t *testing.T) {
	stubFactories(t)

	var ranSteps []string
	runSequence = func(ctx *provisioning.Context, stepList []provisioning.Step) (*provisioning.RunResult, error) {
		require.NotNil(t, ctx.Target)
		require.NotNil(t, ctx.Checks)
		result := provisioning.NewRunResult()
		for _, step := range stepList {
			ranSteps = append(ranSteps, step.Name())
			result.Add(provisioning.Record{Step: step.Name(), Outcome: provisioning.OutcomeSuccess})
		}
		return result, nil
	}

	err := Apply(context.Background(), "provflow.yaml", Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"install-packages",
		"patch-config-value",
		"restart-service",
		"create-database-and-user",
		"load-seed-data",
		"build-artifact",
		"launch-process",
	}, ranSteps)
}

func TestApply_StepFailure(t *testing.T) {
	stubFactories(t)

	stepErr := provisioning.NewStepError("create-database-and-user", provisioning.KindStepExecution,
		errors.New("access denied"))
	runSequence = func(_ *provisioning.Context, _ []provisioning.Step) (*provisioning.RunResult, error) {
		result := provisioning.NewRunResult()
		result.Add(provisioning.Record{Step: "create-database-and-user", Outcome: provisioning.OutcomeFailed, Err: stepErr})
		return result, stepErr
	}

	err := Apply(context.Background(), "provflow.yaml", Options{})
	require.Error(t, err)
	assert.Equal(t, "create-database-and-user", provisioning.FailingStep(err))
}

func TestApply_ConfigError(t *testing.T) {
	stubFactories(t)

	loadConfigFile = func(_ string) (*config.Config, error) {
		return nil, errors.New("yaml: unmarshal error")
	}
	runSequence = func(_ *provisioning.Context, _ []provisioning.Step) (*provisioning.RunResult, error) {
		t.Fatal("sequence should not run on config error")
		return nil, nil
	}

	err := Apply(context.Background(), "broken.yaml", Options{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestApply_TUI(t *testing.T) {
	stubFactories(t)

	isTerminal = func() bool { return true }

	var gotTarget, gotHost string
	var gotSteps []string
	runTUI = func(ctx context.Context, target, host string, stepNames []string, runFn func(context.Context, provisioning.Observer) error) error {
		gotTarget = target
		gotHost = host
		gotSteps = stepNames
		return runFn(ctx, quietObserver{})
	}

	err := Apply(context.Background(), "provflow.yaml", Options{TUI: true})
	require.NoError(t, err)

	assert.Equal(t, "library", gotTarget)
	assert.Equal(t, "localhost", gotHost)
	assert.Len(t, gotSteps, 7)
	assert.Equal(t, "install-packages", gotSteps[0])
	assert.Equal(t, "launch-process", gotSteps[6])
}

func TestApply_TUIInterruptExitsNonZero(t *testing.T) {
	stubFactories(t)

	isTerminal = func() bool { return true }
	runTUI = func(_ context.Context, _, _ string, _ []string, _ func(context.Context, provisioning.Observer) error) error {
		return tui.ErrInterrupted
	}

	err := Apply(context.Background(), "provflow.yaml", Options{TUI: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestApply_TUIFallsBackWithoutTerminal(t *testing.T) {
	stubFactories(t)

	isTerminal = func() bool { return false }
	runTUI = func(_ context.Context, _, _ string, _ []string, _ func(context.Context, provisioning.Observer) error) error {
		t.Fatal("TUI should not start without a terminal")
		return nil
	}

	err := Apply(context.Background(), "provflow.yaml", Options{TUI: true})
	assert.NoError(t, err)
}
