package expect

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/casegen/casegen/domain"
)

func loginClasses() []domain.EquivalenceClass {
	return []domain.EquivalenceClass{
		{Variable: "username", Label: "username-Valid", State: domain.StateValid, Representatives: []domain.Value{"u", "us"}},
		{Variable: "username", Label: "username-Invalid", State: domain.StateInvalid, Representatives: []domain.Value{"vacío"}},
		{Variable: "slider", Label: "slider-Valid", State: domain.StateValid, Representatives: []domain.Value{"arrastrado"}},
	}
}

func loginCase(id string, username, slider domain.Value) domain.TestCase {
	return domain.TestCase{ID: id, Values: []domain.Assignment{
		{Variable: "username", Value: username},
		{Variable: "slider", Value: slider},
	}}
}

func TestRuleAnnotator(t *testing.T) {
	tests := []struct {
		name        string
		tc          domain.TestCase
		wantVerdict domain.Verdict
		wantInvalid []string
	}{
		{"all valid", loginCase("CP001", "u", "arrastrado"), domain.VerdictAccept, nil},
		{"invalid username", loginCase("CP002", "vacío", "arrastrado"), domain.VerdictReject, []string{"username-Invalid"}},
		{"unclassified slider", loginCase("CP003", "us", "quieto"), domain.VerdictUnknown, nil},
	}

	a := NewRuleAnnotator()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ann, err := a.Annotate(context.Background(), tc.tc, loginClasses())
			require.NoError(t, err)
			assert.Equal(t, tc.tc.ID, ann.CaseID)
			assert.Equal(t, tc.wantVerdict, ann.Verdict)
			assert.Equal(t, tc.wantInvalid, ann.InvalidClasses)
			assert.NotEmpty(t, ann.Description)
		})
	}
}

func TestRuleAnnotatorLookupMiss(t *testing.T) {
	tc := domain.TestCase{ID: "CP001", Values: []domain.Assignment{{Variable: "username", Value: "u"}}}
	_, err := NewRuleAnnotator().Annotate(context.Background(), tc, loginClasses())
	require.ErrorIs(t, err, domain.ErrVariableLookupMiss)

	var miss *domain.VariableLookupMissError
	require.ErrorAs(t, err, &miss)
	assert.Equal(t, "slider", miss.Variable)
}

func TestRuleAnnotatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRuleAnnotator().Annotate(ctx, loginCase("CP001", "u", "arrastrado"), loginClasses())
	assert.ErrorIs(t, err, context.Canceled)
}

func fastConfig() RunnerConfig {
	return RunnerConfig{Concurrency: 2, Retries: 2, Backoff: time.Millisecond}
}

func TestRunnerAnnotatesEveryCaseInOrder(t *testing.T) {
	cases := []domain.TestCase{
		loginCase("CP001", "u", "arrastrado"),
		loginCase("CP002", "vacío", "arrastrado"),
		loginCase("CP003", "us", "arrastrado"),
	}

	anns, err := NewRunner(NewRuleAnnotator(), fastConfig()).Run(context.Background(), cases, loginClasses())
	require.NoError(t, err)
	require.Len(t, anns, 3)

	for i, ann := range anns {
		assert.Equal(t, cases[i].ID, ann.CaseID)
		assert.Equal(t, 1, ann.Attempts)
		assert.False(t, ann.Failed())
	}
	assert.Equal(t, domain.VerdictReject, anns[1].Verdict)
}

func TestRunnerRetriesTransientFailures(t *testing.T) {
	fake := NewFakeAnnotator().WithFailTimes("CP002", 2)
	cases := []domain.TestCase{
		loginCase("CP001", "u", "arrastrado"),
		loginCase("CP002", "us", "arrastrado"),
	}

	anns, err := NewRunner(fake, fastConfig()).Run(context.Background(), cases, loginClasses())
	require.NoError(t, err)

	assert.Equal(t, 1, anns[0].Attempts)
	assert.Equal(t, 3, anns[1].Attempts)
	assert.False(t, anns[1].Failed())
	assert.Equal(t, domain.VerdictAccept, anns[1].Verdict)
	assert.Equal(t, 3, fake.CallCount("CP002"))
}

func TestRunnerIsolatesPermanentFailures(t *testing.T) {
	fake := NewFakeAnnotator().WithFailAlways("CP002")
	cases := []domain.TestCase{
		loginCase("CP001", "u", "arrastrado"),
		loginCase("CP002", "us", "arrastrado"),
		loginCase("CP003", "vacío", "arrastrado"),
	}

	anns, err := NewRunner(fake, fastConfig()).Run(context.Background(), cases, loginClasses())
	require.NoError(t, err)
	require.Len(t, anns, 3)

	assert.True(t, anns[1].Failed())
	assert.Equal(t, "CP002", anns[1].CaseID)
	assert.Equal(t, domain.VerdictUnknown, anns[1].Verdict)
	assert.Equal(t, 3, anns[1].Attempts)

	assert.False(t, anns[0].Failed())
	assert.False(t, anns[2].Failed())
	assert.Equal(t, domain.VerdictReject, anns[2].Verdict)
}

func TestRunnerNoRetries(t *testing.T) {
	fake := NewFakeAnnotator().WithFailAlways("CP001")
	cfg := fastConfig()
	cfg.Retries = -1

	anns, err := NewRunner(fake, cfg).Run(context.Background(),
		[]domain.TestCase{loginCase("CP001", "u", "arrastrado")}, loginClasses())
	require.NoError(t, err)
	assert.Equal(t, 1, anns[0].Attempts)
	assert.Equal(t, 1, fake.CallCount("CP001"))
}

func TestRunnerNilAnnotationIsFailure(t *testing.T) {
	nilAnnotator := AnnotatorFunc(func(context.Context, domain.TestCase, []domain.EquivalenceClass) (*domain.Annotation, error) {
		return nil, nil
	})
	cfg := fastConfig()
	cfg.Retries = -1

	anns, err := NewRunner(nilAnnotator, cfg).Run(context.Background(),
		[]domain.TestCase{loginCase("CP001", "u", "arrastrado")}, loginClasses())
	require.NoError(t, err)
	assert.Equal(t, errNilAnnotation.Error(), anns[0].Error)
}

func TestRunnerRespectsConcurrencyLimit(t *testing.T) {
	var inFlight, peak int32
	slow := AnnotatorFunc(func(ctx context.Context, tc domain.TestCase, classes []domain.EquivalenceClass) (*domain.Annotation, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return &domain.Annotation{Verdict: domain.VerdictAccept}, nil
	})

	var cases []domain.TestCase
	for i := 1; i <= 8; i++ {
		cases = append(cases, loginCase(domain.FormatCaseID(i), "u", "arrastrado"))
	}

	anns, err := NewRunner(slow, fastConfig()).Run(context.Background(), cases, loginClasses())
	require.NoError(t, err)
	assert.Len(t, anns, 8)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.Equal(t, "CP005", anns[4].CaseID)
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(NewRuleAnnotator(), fastConfig()).Run(ctx,
		[]domain.TestCase{loginCase("CP001", "u", "arrastrado")}, loginClasses())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunnerStopsWhenCancelledMidRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int32
	cancelling := AnnotatorFunc(func(ctx context.Context, tc domain.TestCase, classes []domain.EquivalenceClass) (*domain.Annotation, error) {
		atomic.AddInt32(&calls, 1)
		cancel()
		return &domain.Annotation{Verdict: domain.VerdictAccept}, nil
	})

	var cases []domain.TestCase
	for i := 1; i <= 5; i++ {
		cases = append(cases, loginCase(domain.FormatCaseID(i), "u", "arrastrado"))
	}

	anns, err := NewRunner(cancelling, RunnerConfig{Concurrency: 1, Retries: -1, Backoff: time.Millisecond}).Run(ctx, cases, loginClasses())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, anns)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRunnerConfigDefaults(t *testing.T) {
	cfg := RunnerConfig{}.WithDefaults()
	assert.Equal(t, DefaultRunnerConfig(), cfg)

	cfg = RunnerConfig{Retries: -3}.WithDefaults()
	assert.Equal(t, 0, cfg.Retries)
}
