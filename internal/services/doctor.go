package services

import (
	"context"
	"fmt"
	"os"

	"github.com/doeshing/asoforge/internal/domain"
	"github.com/doeshing/asoforge/internal/ports"
)

// DoctorService runs environment diagnostics: configuration, backend
// reachability and auth, tool-server wiring, image providers, export root.
type DoctorService struct {
	ConfigProvider ports.ConfigProvider
	Client         ports.BackendClient
	Images         ports.ImageService
}

// Run executes checks and returns a report. The report is always populated;
// the error mirrors the first fatal check.
func (s *DoctorService) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))

	checks = append(checks, tokenCheck(cfg.Backend.AuthEnvVar))
	checks = append(checks, s.backendCheck(ctx))
	checks = append(checks, toolServerCheck(cfg.Tools))
	checks = append(checks, s.imageCheck())
	checks = append(checks, exportRootCheck(cfg.Export.Root))

	return domain.HealthReport{Checks: checks}, nil
}

func tokenCheck(envVar string) domain.HealthCheck {
	if envVar == "" {
		return warn("Backend token", "backend.auth_env_var not configured")
	}
	if os.Getenv(envVar) == "" {
		return warn("Backend token", fmt.Sprintf("%s is not set", envVar))
	}
	return ok("Backend token", fmt.Sprintf("%s present", envVar))
}

func (s *DoctorService) backendCheck(ctx context.Context) domain.HealthCheck {
	if s.Client == nil {
		return warn("Backend", "client not initialized")
	}
	if err := s.Client.Start(ctx); err != nil {
		return fail("Backend", err.Error())
	}
	status, err := s.Client.AuthStatus(ctx)
	if err != nil {
		return warn("Backend", fmt.Sprintf("reachable, auth check failed: %v", err))
	}
	if !status.Authenticated {
		return warn("Backend", "reachable but not authenticated")
	}
	return ok("Backend", fmt.Sprintf("authenticated as %s", status.Login))
}

func toolServerCheck(tools domain.ToolsConfig) domain.HealthCheck {
	if tools.KeywordScorerURL == "" {
		return warn("Keyword scorer", "tools.keyword_scorer_url not configured; /score will be unavailable")
	}
	return ok("Keyword scorer", tools.KeywordScorerURL)
}

func (s *DoctorService) imageCheck() domain.HealthCheck {
	if s.Images == nil || !s.Images.Available() {
		return warn("Image providers", "no provider credentials configured; /icon and /feature will be unavailable")
	}
	return ok("Image providers", "credentials detected")
}

func exportRootCheck(root string) domain.HealthCheck {
	if root == "" {
		return warn("Export root", "export.root not configured")
	}
	return ok("Export root", root)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
