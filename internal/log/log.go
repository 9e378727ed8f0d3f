// Package log provides module-scoped structured loggers shared by every
// package in this repository. It mirrors the call shape the rest of the
// ecosystem uses for leveled, key/value logging while delegating the actual
// formatting and sink to zap.
package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

// Module names. Each package that logs declares its own module constant and
// a single package-level logger built from it, so log lines can be filtered
// by subsystem.
const (
	ModuleChain     = "CHAIN"
	ModuleCrypto    = "CRYPTO"
	ModuleMiner     = "MINER"
	ModulePeers     = "PEERS"
	ModuleGossip    = "GOSSIP"
	ModuleScheduler = "SCHEDULER"
	ModuleAPI       = "API"
	ModuleNode      = "NODE"
	ModuleCmd       = "CMD"
)

// Logger is the interface every component logs through.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
}

type moduleLogger struct {
	module string
	sugar  *zap.SugaredLogger
}

var (
	baseOnce sync.Once
	base     *zap.Logger
)

func baseLogger() *zap.Logger {
	baseOnce.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		l, err := cfg.Build(zap.AddCallerSkip(1))
		if err != nil {
			// Fall back to a no-op logger that discards every line; this
			// should not happen with the production config above.
			l = zap.NewNop()
			os.Stderr.WriteString("log: failed to build zap logger: " + err.Error() + "\n")
		}
		base = l
	})
	return base
}

// NewModuleLogger returns a logger that tags every line with module.
func NewModuleLogger(module string) Logger {
	return &moduleLogger{
		module: module,
		sugar:  baseLogger().Sugar().With("module", module),
	}
}

func (l *moduleLogger) Debug(msg string, keyvals ...interface{}) { l.sugar.Debugw(msg, keyvals...) }
func (l *moduleLogger) Info(msg string, keyvals ...interface{})  { l.sugar.Infow(msg, keyvals...) }
func (l *moduleLogger) Warn(msg string, keyvals ...interface{})  { l.sugar.Warnw(msg, keyvals...) }
func (l *moduleLogger) Error(msg string, keyvals ...interface{}) { l.sugar.Errorw(msg, keyvals...) }
