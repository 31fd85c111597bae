package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/specialistvlad/assetgraph/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocation struct {
	repos     []string
	reposErr  error
	pipeErr   error
	closeErr  error
	closed    int
	requested []Selector
}

func (f *fakeLocation) Repositories(context.Context) ([]string, error) {
	return f.repos, f.reposErr
}

func (f *fakeLocation) Pipeline(_ context.Context, sel Selector) (*ExternalPipeline, error) {
	f.requested = append(f.requested, sel)
	if f.pipeErr != nil {
		return nil, f.pipeErr
	}
	return &ExternalPipeline{Name: sel.Pipeline, Repository: sel.Repository, Location: sel.Location, Units: sel.Selection}, nil
}

func (f *fakeLocation) Close() error {
	f.closed++
	return f.closeErr
}

func dialerFor(loc *fakeLocation, seen *Origin) Dialer {
	return DialerFunc(func(_ context.Context, origin Origin) (Location, error) {
		if seen != nil {
			*seen = origin
		}
		return loc, nil
	})
}

func testRun() *Run {
	return &Run{
		ID:        "run-1",
		Pipeline:  "daily",
		Selection: []string{"orders", "report"},
		Origin:    &Origin{Location: "etl", URL: "http://localhost:4000"},
	}
}

func TestWithExternalPipeline(t *testing.T) {
	loc := &fakeLocation{repos: []string{"analytics"}}
	var origin Origin

	var got *ExternalPipeline
	err := WithExternalPipeline(context.Background(), dialerFor(loc, &origin), testRun(), func(_ context.Context, p *ExternalPipeline) error {
		got = p
		assert.Zero(t, loc.closed, "handle stays open while the scope runs")
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "etl", origin.Location)
	assert.Equal(t, []Selector{{Location: "etl", Repository: "analytics", Pipeline: "daily", Selection: []string{"orders", "report"}}}, loc.requested)
	assert.Equal(t, &ExternalPipeline{Name: "daily", Repository: "analytics", Location: "etl", Units: []string{"orders", "report"}}, got)
	assert.Equal(t, 1, loc.closed)
}

func TestWithExternalPipeline_Errors(t *testing.T) {
	boom := errors.New("boom")

	testCases := []struct {
		name       string
		loc        *fakeLocation
		fnErr      error
		wantIs     error
		wantErr    string
		wantClosed int
	}{
		{
			name:       "no repository",
			loc:        &fakeLocation{},
			wantIs:     model.ErrInvariant,
			wantErr:    "exactly one repository, got 0",
			wantClosed: 1,
		},
		{
			name:       "two repositories",
			loc:        &fakeLocation{repos: []string{"a", "b"}},
			wantIs:     model.ErrInvariant,
			wantErr:    "got 2",
			wantClosed: 1,
		},
		{
			name:       "listing fails",
			loc:        &fakeLocation{reposErr: boom},
			wantIs:     boom,
			wantErr:    "error listing repositories of location 'etl'",
			wantClosed: 1,
		},
		{
			name:       "pipeline fetch fails",
			loc:        &fakeLocation{repos: []string{"a"}, pipeErr: boom},
			wantIs:     boom,
			wantErr:    "error fetching pipeline 'daily'",
			wantClosed: 1,
		},
		{
			name:       "scope function fails",
			loc:        &fakeLocation{repos: []string{"a"}},
			fnErr:      boom,
			wantIs:     boom,
			wantErr:    "boom",
			wantClosed: 1,
		},
		{
			name:       "release fails",
			loc:        &fakeLocation{repos: []string{"a"}, closeErr: boom},
			wantIs:     boom,
			wantErr:    "error releasing location 'etl'",
			wantClosed: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := WithExternalPipeline(context.Background(), dialerFor(tc.loc, nil), testRun(), func(context.Context, *ExternalPipeline) error {
				return tc.fnErr
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantIs)
			assert.ErrorContains(t, err, tc.wantErr)
			assert.Equal(t, tc.wantClosed, tc.loc.closed)
		})
	}

	t.Run("dial fails", func(t *testing.T) {
		d := DialerFunc(func(context.Context, Origin) (Location, error) { return nil, boom })
		err := WithExternalPipeline(context.Background(), d, testRun(), func(context.Context, *ExternalPipeline) error {
			t.Fatal("scope must not run")
			return nil
		})
		assert.ErrorIs(t, err, boom)
		assert.ErrorContains(t, err, "error opening location 'etl'")
	})

	t.Run("run without origin", func(t *testing.T) {
		err := WithExternalPipeline(context.Background(), dialerFor(&fakeLocation{}, nil), &Run{ID: "x"}, nil)
		assert.EqualError(t, err, "run has no code location origin")
	})
}

func TestDecodeResponse(t *testing.T) {
	resp, err := decodeResponse(map[string]any{
		"pipeline": map[string]any{
			"name":       "daily",
			"repository": "analytics",
			"location":   "etl",
			"units":      []any{"orders"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, &ExternalPipeline{Name: "daily", Repository: "analytics", Location: "etl", Units: []string{"orders"}}, resp.Pipeline)

	resp, err = decodeResponse(map[string]any{"repositories": []any{"analytics"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"analytics"}, resp.Repositories)

	_, err = decodeResponse(map[string]any{"error": "pipeline not found"})
	assert.EqualError(t, err, "location error: pipeline not found")

	_, err = decodeResponse(nil)
	assert.EqualError(t, err, "empty response from location")
}

func TestToPlain(t *testing.T) {
	out, err := toPlain(Selector{Location: "etl", Repository: "r", Pipeline: "p"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"location": "etl", "repository": "r", "pipeline": "p"}, out)
}

func TestSocketDialer_Errors(t *testing.T) {
	d := &SocketDialer{Timeout: 2 * time.Second}

	_, err := d.Dial(context.Background(), Origin{Location: "etl"})
	assert.EqualError(t, err, "location 'etl' has no URL")

	_, err = d.Dial(context.Background(), Origin{Location: "etl", URL: "http://[::1"})
	assert.ErrorContains(t, err, "failed to parse URL")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.Dial(ctx, Origin{Location: "etl", URL: "http://127.0.0.1:1"})
	assert.Error(t, err)
}
