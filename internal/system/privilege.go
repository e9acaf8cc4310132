package system

import "zsh-setup/internal/logger"

// PrivilegeGate checks once per run whether sudo can be used.
type PrivilegeGate struct {
	probe  *Probe
	runner Runner
}

// NewPrivilegeGate creates a gate that checks with probe and runner.
func NewPrivilegeGate(probe *Probe, runner Runner) *PrivilegeGate {
	return &PrivilegeGate{probe: probe, runner: runner}
}

// Check reports whether elevated operations are possible. A cached sudo session is reused
// without prompting; otherwise sudo asks for the password on the terminal.
// Failure is reported but never returned as an error: commands needing sudo fail on their own.
func (g *PrivilegeGate) Check() bool {
	if !g.probe.Has("sudo") {
		logger.Warn("[WARN] sudo is not installed; privileged installs will fail\n")
		return false
	}

	if _, err := g.runner.Run(NewCommand("sudo", "-n", "true")); err == nil {
		logger.Debug("[DEBUG] Reusing cached sudo session\n")
		return true
	}

	logger.Info("[INFO] Administrator privileges are needed for some steps\n")
	if _, err := g.runner.Run(NewCommand("sudo", "-v").Interactively()); err != nil {
		logger.Warn("[WARN] Could not obtain sudo privileges: %v\n", err)
		return false
	}
	return true
}
