package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/casegen/casegen/domain"
	"github.com/example/casegen/casegen/expect"
	"github.com/example/casegen/casegen/source"
)

func testIDGenerator() func() string {
	counter := 0
	return func() string {
		counter++
		return "suite-" + string(rune('0'+counter))
	}
}

func sampleSource() *source.Result {
	return &source.Result{
		Format: source.FormatJSON,
		Mode:   domain.ModeStructured,
		Classes: []domain.EquivalenceClass{
			{Variable: "A", Label: "A-Valid", State: domain.StateValid, Representatives: []domain.Value{"a1"}},
			{Variable: "A", Label: "A-Invalid", State: domain.StateInvalid, Representatives: []domain.Value{"a2"}},
			{Variable: "B", Label: "B-Valid", State: domain.StateValid, Representatives: []domain.Value{"b1"}},
		},
	}
}

func TestRunStructured(t *testing.T) {
	p := New(Options{
		Config:      domain.GenerationConfig{MaxCases: 10},
		IDGenerator: testIDGenerator(),
	})

	res, err := p.Run(context.Background(), sampleSource())
	require.NoError(t, err)

	assert.Equal(t, "suite-1", res.Suite.ID)
	assert.Equal(t, []string{"CP001", "CP002"}, res.Suite.CaseIDs())
	assert.False(t, res.Suite.Sampled)
	assert.Equal(t, 2, res.Suite.ProductSize)

	require.Equal(t, 3, res.Coverage.NumClasses())
	assert.Equal(t, []string{"CP001"}, res.Coverage.CasesCovering(0))
	assert.Equal(t, []string{"CP002"}, res.Coverage.CasesCovering(1))
	assert.Equal(t, []string{"CP001", "CP002"}, res.Coverage.CasesCovering(2))

	assert.Nil(t, res.Annotations)
	assert.Empty(t, res.Warnings)
}

func TestRunWithAnnotations(t *testing.T) {
	fake := expect.NewFakeAnnotator().WithFailAlways("CP001")
	p := New(Options{
		Config:      domain.GenerationConfig{MaxCases: 10},
		Annotator:   fake,
		Annotation:  expect.RunnerConfig{Retries: -1},
		IDGenerator: testIDGenerator(),
	})

	res, err := p.Run(context.Background(), sampleSource())
	require.NoError(t, err)
	require.Len(t, res.Annotations, 2)

	// A failed annotation leaves the case and the matrix untouched
	assert.True(t, res.Annotations[0].Failed())
	assert.Equal(t, domain.VerdictReject, res.Annotations[1].Verdict)
	assert.Equal(t, 2, res.Suite.NumCases())
	assert.Equal(t, []string{"CP001"}, res.Coverage.CasesCovering(0))
}

func TestRunTabular(t *testing.T) {
	input := "user,pass,outcome\n" +
		"admin,secret,V\n" +
		"admin,,I\n" +
		"guest,secret,V\n"
	src, err := source.Load(strings.NewReader(input), source.FormatCSV, source.Options{})
	require.NoError(t, err)

	// The cap does not apply to records taken verbatim
	p := New(Options{
		Config:      domain.GenerationConfig{MaxCases: 1},
		IDGenerator: testIDGenerator(),
	})
	res, err := p.Run(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, domain.ModeTabular, res.Suite.Mode)
	assert.Equal(t, 3, res.Suite.NumCases())
	assert.Equal(t, 3, res.Suite.ProductSize)
	assert.False(t, res.Suite.Sampled)
	assert.Equal(t, []string{"user", "pass"}, res.Suite.Variables)

	// user-Valid {admin, guest}: every row
	assert.Equal(t, []string{"CP001", "CP002", "CP003"}, res.Coverage.CasesCovering(0))

	// admin sits in both user classes; that is normal for records
	assert.Empty(t, res.Warnings)
}

func TestRunSampledIsReproducible(t *testing.T) {
	src := &source.Result{Mode: domain.ModeStructured}
	for _, v := range []string{"x", "y", "z"} {
		src.Classes = append(src.Classes, domain.EquivalenceClass{
			Variable: v, Label: v + "-Valid", State: domain.StateValid,
			Representatives: []domain.Value{"1", "2", "3"},
		})
	}

	cfg := domain.GenerationConfig{MaxCases: 6, RandomSeed: 42}
	first, err := New(Options{Config: cfg, IDGenerator: testIDGenerator()}).Run(context.Background(), src)
	require.NoError(t, err)
	second, err := New(Options{Config: cfg, IDGenerator: testIDGenerator()}).Run(context.Background(), src)
	require.NoError(t, err)

	assert.True(t, first.Suite.Sampled)
	assert.Equal(t, 27, first.Suite.ProductSize)
	assert.Equal(t, first.Suite.Cases, second.Suite.Cases)
}

func TestRunReportsCollisions(t *testing.T) {
	src := sampleSource()
	src.Classes[1].Representatives = []domain.Value{"a1"}

	res, err := New(Options{IDGenerator: testIDGenerator()}).Run(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "A", res.Warnings[0].Variable)
	assert.Equal(t, domain.Value("a1"), res.Warnings[0].Value)
}

func TestRunErrors(t *testing.T) {
	p := New(Options{IDGenerator: testIDGenerator()})

	_, err := p.Run(context.Background(), nil)
	assert.Error(t, err)

	_, err = p.Run(context.Background(), &source.Result{Mode: domain.ModeStructured})
	assert.ErrorIs(t, err, domain.ErrNoVariables)

	bad := New(Options{Config: domain.GenerationConfig{MaxCases: -1}, IDGenerator: testIDGenerator()})
	_, err = bad.Run(context.Background(), sampleSource())
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Run(ctx, sampleSource())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRun(t *testing.T) {
	res, err := New(Options{IDGenerator: testIDGenerator()}).Run(context.Background(), sampleSource())
	require.NoError(t, err)

	run := NewRun(res, "classes.json")
	assert.Equal(t, res.Suite.ID, run.ID)
	assert.Equal(t, "classes.json", run.Source)
	assert.Equal(t, res.Suite.Cases, run.Cases)
	assert.Equal(t, res.Source.Classes, run.Classes)
	assert.Equal(t, res.Suite, run.Suite())
}
