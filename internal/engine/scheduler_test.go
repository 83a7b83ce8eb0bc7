package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/fiscus-ingest/internal/browser/browsertest"
	"github.com/donaldgifford/fiscus-ingest/internal/scraper"
	"github.com/donaldgifford/fiscus-ingest/internal/store"
	storeMocks "github.com/donaldgifford/fiscus-ingest/internal/store/mocks"
	domain "github.com/donaldgifford/fiscus-ingest/pkg/types"
)

// kyiv stands in for Europe/Kyiv without depending on the host tz database.
var kyiv = time.FixedZone("EET", 2*60*60)

func TestNewScheduler_DefaultSchedule(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler(nil, storeMocks.NewMockStore(t), kyiv, DefaultSchedule, quietLogger())
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 2)
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	t.Parallel()

	_, err := NewScheduler(nil, storeMocks.NewMockStore(t), nil, []string{"0 6 * * *", "not a cron"}, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a cron")
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler(nil, storeMocks.NewMockStore(t), kyiv, DefaultSchedule, quietLogger())
	require.NoError(t, err)

	s.Start()
	for _, e := range s.Entries() {
		assert.False(t, e.Next.IsZero(), "started entries have a next run")
		assert.Equal(t, kyiv.String(), e.Next.Location().String())
	}

	ctx := s.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_RunJob(t *testing.T) {
	t.Parallel()

	const name = "scrape-all 0 6 * * *"
	errEnqueue := errors.New("queue unavailable")

	tests := []struct {
		name    string
		setup   func(ms *storeMocks.MockStore)
		fn      func(context.Context) error
		wantRun bool
		wantErr error
	}{
		{
			name: "lock acquired and kept on success",
			setup: func(ms *storeMocks.MockStore) {
				ms.EXPECT().AcquireSchedulerLock(mock.Anything, name, mock.Anything, defaultLockTTL).
					Return(true, nil).Once()
			},
			fn:      func(context.Context) error { return nil },
			wantRun: true,
		},
		{
			name: "lock released on failure",
			setup: func(ms *storeMocks.MockStore) {
				ms.EXPECT().AcquireSchedulerLock(mock.Anything, name, mock.Anything, defaultLockTTL).
					Return(true, nil).Once()
				ms.EXPECT().ReleaseSchedulerLock(mock.Anything, name, mock.Anything).
					Return(nil).Once()
			},
			fn:      func(context.Context) error { return errEnqueue },
			wantRun: true,
			wantErr: errEnqueue,
		},
		{
			name: "held lock skips the run",
			setup: func(ms *storeMocks.MockStore) {
				ms.EXPECT().AcquireSchedulerLock(mock.Anything, name, mock.Anything, defaultLockTTL).
					Return(false, nil).Once()
			},
			fn: func(context.Context) error { return nil },
		},
		{
			name: "lock error is returned",
			setup: func(ms *storeMocks.MockStore) {
				ms.EXPECT().AcquireSchedulerLock(mock.Anything, name, mock.Anything, defaultLockTTL).
					Return(false, errEnqueue).Once()
			},
			fn:      func(context.Context) error { return nil },
			wantErr: errEnqueue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := storeMocks.NewMockStore(t)
			tt.setup(ms)
			s, err := NewScheduler(nil, ms, nil, nil, quietLogger())
			require.NoError(t, err)

			ran := false
			err = s.runJob(context.Background(), name, defaultLockTTL, func(ctx context.Context) error {
				ran = true
				return tt.fn(ctx)
			})

			assert.Equal(t, tt.wantRun, ran)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestScheduler_RunScrapeAllOncePerFiring(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	mem := store.NewMemoryStore()
	mem.SetClock(clock.Now)
	eng := NewEngine(mem, scraper.NewRegistry(), browsertest.NewLauncher(nil), nil,
		WithLogger(quietLogger()), WithClock(clock.Now))

	first, err := NewScheduler(eng, mem, nil, DefaultSchedule, quietLogger())
	require.NoError(t, err)
	second, err := NewScheduler(eng, mem, nil, DefaultSchedule, quietLogger())
	require.NoError(t, err)

	const name = "scrape-all 0 6 * * *"
	first.runScrapeAll(name)
	second.runScrapeAll(name)

	jobs := mem.PendingJobs()
	require.Len(t, jobs, 1, "a second instance skips the firing")
	assert.Equal(t, domain.KindScrapeAll, jobs[0].Kind)

	tasks, total, err := mem.ListTaskLogs(context.Background(), &store.TaskQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Scrape all stores", tasks[0].Name)

	clock.Advance(defaultLockTTL + time.Second)
	second.runScrapeAll(name)
	assert.Len(t, mem.PendingJobs(), 2, "the lock expires after its TTL")
}
