package denylist

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRefreshDurationReportedInSeconds(t *testing.T) {
	assert.Equal(t, 1, testutil.CollectAndCount(refreshDuration, "denylist_refresh_duration_seconds"))
	assert.Zero(t, testutil.CollectAndCount(refreshDuration, "denylist_refresh_duration_sec"))
}
