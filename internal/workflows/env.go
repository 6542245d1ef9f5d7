package workflows

import (
	"github.com/devforge/devforge/internal/audit"
	"github.com/devforge/devforge/internal/configs"
	logger "github.com/devforge/devforge/internal/logging"
	"github.com/devforge/devforge/internal/secrets"
)

// Env holds the components one project's workflows share. Every component
// receives its configuration explicitly from Config.
type Env struct {
	Config configs.Config
	Keys   *secrets.KeyProvider
	Store  *secrets.Store
	Audit  *audit.Log
	Log    logger.Logger
}

// Open wires the components for the project described by cfg. Nothing is
// read from disk until a workflow runs.
func Open(cfg configs.Config, log logger.Logger) *Env {
	keys := secrets.NewKeyProvider(cfg.Key, log)
	return &Env{
		Config: cfg,
		Keys:   keys,
		Store:  secrets.NewStore(cfg, keys, log),
		Audit:  audit.NewLog(cfg.AuditPath),
		Log:    log,
	}
}

// record appends to the audit log, downgrading failures to a warning.
func (e *Env) record(entry audit.Entry) {
	if err := e.Audit.Append(entry); err != nil {
		e.Log.Warnf("Failed to write audit log %s: %v", e.Audit.Path(), err)
	}
}
