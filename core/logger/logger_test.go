package logger

import (
	"testing"

	"log/slog"
)

func TestComponentLoggersUsableWithoutInit(t *testing.T) {
	loggers := map[string]*slog.Logger{
		"L":           L,
		"DB":          DB,
		"TG":          TG,
		"MIG":         MIG,
		"TWire":       TWire,
		"SVCAuth":     SVCAuth,
		"SVCExpenses": SVCExpenses,
		"SVCGroups":   SVCGroups,
		"SVCReports":  SVCReports,
	}
	for name, logg := range loggers {
		if logg == nil {
			t.Fatalf("component logger %s is nil before InitLogger", name)
		}
	}
	// Must not panic even when InitLogger has never run.
	SVCAuth.Info("smoke", slog.String("event", "test"))
}
