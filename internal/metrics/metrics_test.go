package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordAdd(10 * time.Millisecond)
	m.RecordAdd(20 * time.Millisecond)
	m.RecordAddFailure("checksum")
	m.RecordSearch(5, time.Millisecond)
	m.RecordRead()
	m.RecordIntegrityFailure()
	m.SetRecordCount(42)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AddsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AddFailuresTotal.WithLabelValues("checksum")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchesTotal))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.ResultsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReadsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IntegrityFailuresTotal))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.RecordsTotal))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics

	m.RecordAdd(time.Millisecond)
	m.RecordAddFailure("checksum")
	m.RecordSearch(1, time.Millisecond)
	m.RecordRead()
	m.RecordIntegrityFailure()
	m.SetRecordCount(1)
}
