package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mkoesel/provflow/internal/config"
	"github.com/mkoesel/provflow/internal/ui/tui"
	"github.com/mkoesel/provflow/internal/util/netutil"
	"github.com/mkoesel/provflow/internal/util/prerequisites"
)

const dbProbeTimeout = 5 * time.Second

// Factory function variables for doctor - can be replaced in tests.
var (
	// checkAllPrereqs checks required and optional client tools.
	checkAllPrereqs = prerequisites.CheckAll

	// probeTCP checks database reachability.
	probeTCP = netutil.ProbeTCP
)

// Doctor diagnoses the deployment setup without changing anything.
//
// It validates the configuration file, checks client tools on PATH, and
// probes the database endpoint over TCP. Returns an error when any required
// probe fails so the command exits non-zero in scripts.
func Doctor(ctx context.Context, configPath string, jsonOutput bool) error {
	report := buildDoctorReport(ctx, configPath)

	if jsonOutput {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		fmt.Println(string(out))
	} else {
		fmt.Print(tui.RenderDoctor(report))
	}

	if !report.Healthy() {
		return fmt.Errorf("doctor found problems")
	}
	return nil
}

// buildDoctorReport runs every diagnostic probe and collects the results.
// Probes keep running after a failure so the report is complete.
func buildDoctorReport(ctx context.Context, configPath string) *tui.DoctorReport {
	report := &tui.DoctorReport{}

	cfg, err := loadConfig(configPath)
	if err != nil {
		report.ConfigErr = err.Error()
		return report
	}
	report.ConfigOK = true
	report.Target = cfg.Name
	report.Host = targetHost(cfg)
	report.DBHost = cfg.Database.Host
	report.DBPort = cfg.Database.Port

	report.Tools = collectTools(cfg)

	probeCtx, cancel := context.WithTimeout(ctx, dbProbeTimeout)
	defer cancel()
	if probeErr := probeTCP(probeCtx, cfg.Database.Host, cfg.Database.Port); probeErr != nil {
		report.DBProbeErr = probeErr.Error()
	} else {
		report.DBReached = true
	}

	return report
}

// collectTools runs the client tool checks and flattens them into report
// rows. Remote targets build and launch on the target itself, so only the
// optional inspection tools stay required-free there.
func collectTools(cfg *config.Config) []tui.DoctorTool {
	results := checkAllPrereqs()

	remote := cfg.Runner == "ssh"
	tools := make([]tui.DoctorTool, 0, len(results.Results))
	for _, r := range results.Results {
		required := r.Tool.Required && !remote
		tools = append(tools, tui.DoctorTool{
			Name:     r.Tool.Name,
			Found:    r.Found,
			Version:  r.Version,
			Required: required,
		})
	}
	return tools
}
