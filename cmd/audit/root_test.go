package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Youngregg/gbp-audit-tool/internal/domain"
)

type stubAuditor struct {
	inFlight, peak int32
}

func (s *stubAuditor) Audit(ctx context.Context, q string) (domain.AuditReport, error) {
	n := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	for {
		p := atomic.LoadInt32(&s.peak)
		if n <= p || atomic.CompareAndSwapInt32(&s.peak, p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	if strings.TrimSpace(q) == "" {
		return domain.AuditReport{}, &domain.FetchFailure{Reason: domain.ReasonInvalidInput}
	}
	return domain.AuditReport{
		Query:   q,
		Source:  domain.SourceDemo,
		Profile: domain.Profile{Name: "Demo Business (" + q + ")"},
		Score:   domain.Score{Total: 95, Breakdown: map[domain.Criterion]int{}},
	}, nil
}

func TestRunAudits_OrderAndConcurrency(t *testing.T) {
	svc := &stubAuditor{}
	var out bytes.Buffer
	queries := []string{"a", "b", "c", "d", "e", "f"}

	err := runAudits(context.Background(), svc, queries, &options{workers: 2}, &out)
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&svc.peak), int32(2))

	sc := bufio.NewScanner(&out)
	i := 0
	for sc.Scan() {
		var rep domain.AuditReport
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rep))
		assert.Equal(t, queries[i], rep.Query)
		i++
	}
	assert.Equal(t, len(queries), i)
}

func TestRunAudits_ReportsHardFailures(t *testing.T) {
	var out bytes.Buffer
	err := runAudits(context.Background(), &stubAuditor{}, []string{"ok", " "}, &options{workers: 1, pretty: true}, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errHardFailures))
	assert.Contains(t, out.String(), "score: 95/100")
	assert.Contains(t, out.String(), "INVALID_INPUT")
}
