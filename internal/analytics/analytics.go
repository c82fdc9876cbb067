package analytics

import (
	"context"
	"strings"
	"time"

	"sentinel-denylist/internal/storage"
)

type Service struct {
	store *storage.Store
}

func New(store *storage.Store) *Service {
	return &Service{store: store}
}

type Report struct {
	Total     int
	ByLevel   map[string]int
	ByOutcome map[string]int
}

// Report summarises audit entries for a guild since the given time. Without a
// store it returns an empty report.
func (s *Service) Report(ctx context.Context, guildID string, since time.Time) (Report, error) {
	report := Report{ByLevel: make(map[string]int), ByOutcome: make(map[string]int)}
	if s.store == nil {
		return report, nil
	}
	logs, err := s.store.ListAuditLogs(ctx, guildID, since)
	if err != nil {
		return Report{}, err
	}

	for _, log := range logs {
		report.Total++
		report.ByLevel[log.Level]++
		if outcome := detailValue(log.Details, "outcome"); outcome != "" {
			report.ByOutcome[outcome]++
		}
	}
	return report, nil
}

// detailValue extracts key from "k1=v1 k2=v2" audit details.
func detailValue(details, key string) string {
	prefix := key + "="
	for _, field := range strings.Fields(details) {
		if strings.HasPrefix(field, prefix) {
			return strings.TrimPrefix(field, prefix)
		}
	}
	return ""
}
