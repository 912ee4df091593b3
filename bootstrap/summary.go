package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kbukum/autowire/component"
	"github.com/kbukum/autowire/di"
	"github.com/kbukum/autowire/introspect"
	"github.com/kbukum/autowire/version"
)

// Summary prints what the application started with: infrastructure
// components, catalogued classes, container registrations and live health.
type Summary struct {
	serviceName     string
	environment     string
	startupDuration time.Duration
	out             io.Writer
}

// NewSummary creates a summary writing to stdout.
func NewSummary(serviceName, environment string) *Summary {
	return &Summary{
		serviceName: serviceName,
		environment: environment,
		out:         os.Stdout,
	}
}

// SetOutput redirects the summary.
func (s *Summary) SetOutput(w io.Writer) {
	s.out = w
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// DisplaySummary prints the summary. Any argument may be nil.
func (s *Summary) DisplaySummary(registry *component.Registry, container di.Container, catalog *introspect.Catalog) {
	w := s.out
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "🚀 %s %s (%s) started in %.2fs\n\n",
		s.serviceName, version.Short(), s.environment, s.startupDuration.Seconds())

	if registry != nil {
		descs := registry.Descriptions()
		if len(descs) > 0 {
			fmt.Fprintf(w, "📊 Infrastructure\n")
			for i, d := range descs {
				fmt.Fprintf(w, "   %s %s [%s]: %s\n", treePrefix(i, len(descs)), d.Name, d.Type, d.Details)
			}
			fmt.Fprintf(w, "\n")
		}
	}

	if catalog != nil {
		ids := catalog.Identities()
		fmt.Fprintf(w, "🧩 Classes (%d)\n", len(ids))
		for i, id := range ids {
			fmt.Fprintf(w, "   %s %s\n", treePrefix(i, len(ids)), id)
		}
		fmt.Fprintf(w, "\n")
	}

	if container != nil {
		regs := container.Registrations()
		fmt.Fprintf(w, "📦 Container (%d)\n", len(regs))
		for i, r := range regs {
			icon := "⚡"
			if r.Initialized {
				icon = "✅"
			}
			fmt.Fprintf(w, "   %s %s %s (%s)\n", treePrefix(i, len(regs)), icon, r.Key, r.Mode)
		}
	}

	if registry != nil {
		results := registry.HealthAll(context.Background())
		if len(results) > 0 {
			fmt.Fprintf(w, "\n🏥 Health Check\n")
			for i, h := range results {
				msg := ""
				if h.Message != "" {
					msg = fmt.Sprintf(" (%s)", h.Message)
				}
				fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(results)),
					healthStatusIcon(h.Status), h.Name, strings.ToLower(string(h.Status)), msg)
			}
		}
	}

	fmt.Fprintf(w, "\n")
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
