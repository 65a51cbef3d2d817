package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mkoesel/provflow/internal/provisioning"
)

// RenderSummary renders a finished run as a styled step-by-step report for
// non-TUI output.
func RenderSummary(result *provisioning.RunResult) string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Run summary"))
	b.WriteString("\n")

	for _, rec := range result.Records {
		var mark string
		switch rec.Outcome {
		case provisioning.OutcomeSuccess:
			mark = okStyle.Render(checkMark)
		case provisioning.OutcomeFailed:
			mark = failedStyle.Render(crossMark)
		default:
			mark = dimStyle.Render(skipMark)
		}

		line := fmt.Sprintf("  %s %s", mark, rec.Step)
		if rec.Duration > 0 {
			line += dimStyle.Render(fmt.Sprintf(" (%v)", rec.Duration.Round(time.Millisecond)))
		}
		if rec.Err != nil {
			line += "\n" + failedStyle.Render(fmt.Sprintf("       %v", rec.Err))
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// DoctorReport is the renderable result of pre-flight diagnosis.
type DoctorReport struct {
	Target     string       `json:"target"`
	Host       string       `json:"host"`
	ConfigOK   bool         `json:"configOK"`
	ConfigErr  string       `json:"configError,omitempty"`
	Tools      []DoctorTool `json:"tools"`
	DBHost     string       `json:"dbHost"`
	DBPort     int          `json:"dbPort"`
	DBReached  bool         `json:"dbReached"`
	DBProbeErr string       `json:"dbProbeError,omitempty"`
}

// DoctorTool is one client tool row in the doctor report.
type DoctorTool struct {
	Name     string `json:"name"`
	Found    bool   `json:"found"`
	Version  string `json:"version,omitempty"`
	Required bool   `json:"required"`
}

// Healthy reports whether every required probe passed.
func (r *DoctorReport) Healthy() bool {
	if !r.ConfigOK || !r.DBReached {
		return false
	}
	for _, tool := range r.Tools {
		if tool.Required && !tool.Found {
			return false
		}
	}
	return true
}

// RenderDoctor renders the pre-flight diagnosis.
func RenderDoctor(report *DoctorReport) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("provflow doctor · %s", report.Target)))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("target host: %s", report.Host)))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Configuration"))
	b.WriteString("\n")
	if report.ConfigOK {
		b.WriteString(fmt.Sprintf("  %s valid\n", okStyle.Render(checkMark)))
	} else {
		b.WriteString(fmt.Sprintf("  %s %s\n", failedStyle.Render(crossMark), report.ConfigErr))
	}

	b.WriteString(sectionStyle.Render("Client tools"))
	b.WriteString("\n")
	for _, tool := range report.Tools {
		mark := failedStyle.Render(crossMark)
		detail := "not found"
		if tool.Found {
			mark = okStyle.Render(checkMark)
			detail = tool.Version
			if detail == "" {
				detail = "found"
			}
		} else if !tool.Required {
			mark = waitingStyle.Render(pendMark)
			detail = "not found (optional)"
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", mark, tool.Name, dimStyle.Render(detail)))
	}

	b.WriteString(sectionStyle.Render("Database"))
	b.WriteString("\n")
	if report.DBReached {
		b.WriteString(fmt.Sprintf("  %s %s:%d reachable\n", okStyle.Render(checkMark), report.DBHost, report.DBPort))
	} else {
		b.WriteString(fmt.Sprintf("  %s %s:%d unreachable %s\n",
			failedStyle.Render(crossMark), report.DBHost, report.DBPort, dimStyle.Render(report.DBProbeErr)))
	}

	return b.String()
}
