package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/inventory-risk-advisor/internal/model"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/storage"
)

// flakyStorage wraps Memory and fails saves while failSave is set.
type flakyStorage struct {
	*storage.Memory
	failSave bool
	failLoad bool
	saves    int
	deletes  int
}

func (f *flakyStorage) Save(ctx context.Context, key string, blob []byte) error {
	f.saves++
	if f.failSave {
		return errors.New("quota exceeded")
	}
	return f.Memory.Save(ctx, key, blob)
}

func (f *flakyStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if f.failLoad {
		return nil, errors.New("disk on fire")
	}
	return f.Memory.Load(ctx, key)
}

func (f *flakyStorage) Delete(ctx context.Context, key string) error {
	f.deletes++
	return f.Memory.Delete(ctx, key)
}

func fixedClock() func() time.Time {
	t0 := time.UnixMilli(1_700_000_000_000)
	return func() time.Time { return t0 }
}

func widget(name string) model.Input {
	return model.Input{Name: name, Category: "Tools", Price: 100, Quantity: 5, MonthlyDemand: 20, RestockTime: 7}
}

func TestAddScoresAndPersists(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	s := New(mem, WithClock(fixedClock()))

	it, err := s.Add(ctx, widget("w1"))
	require.NoError(t, err)
	require.Equal(t, int64(1_700_000_000_000), it.ID)
	require.Equal(t, 71, it.RiskScore)
	require.Equal(t, model.RiskHigh, it.RiskLevel)
	require.Equal(t, model.DecisionReorder, it.Decision)
	require.NotEmpty(t, it.DecisionReason)

	blob, err := mem.Load(ctx, DefaultKey)
	require.NoError(t, err)
	want, err := Encode(s.List())
	require.NoError(t, err)
	require.Equal(t, string(want), string(blob))
}

func TestIDsNeverCollide(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory(), WithClock(fixedClock()))
	seen := map[int64]bool{}
	for i := 0; i < 50; i++ {
		it, err := s.Add(ctx, widget("w"))
		require.NoError(t, err)
		require.False(t, seen[it.ID], "duplicate id %d", it.ID)
		seen[it.ID] = true
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	f := &flakyStorage{Memory: storage.NewMemory()}
	s := New(f)
	in := widget("bad")
	in.Quantity = -1
	_, err := s.Add(ctx, in)
	require.ErrorIs(t, err, model.ErrQuantityNegative)
	require.Empty(t, s.List())
	require.Zero(t, f.saves)
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := &flakyStorage{Memory: storage.NewMemory()}
	s := New(f)
	a, err := s.Add(ctx, widget("a"))
	require.NoError(t, err)
	b, err := s.Add(ctx, widget("b"))
	require.NoError(t, err)

	removed, err := s.Remove(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, removed)
	require.Equal(t, []model.Item{b}, s.List())

	saves := f.saves
	removed, err = s.Remove(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, removed)
	require.Equal(t, []model.Item{b}, s.List())
	require.Equal(t, saves, f.saves, "no write for a no-op remove")
}

func TestListIsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemory())
	_, err := s.Add(ctx, widget("a"))
	require.NoError(t, err)
	got := s.List()
	got[0].Name = "mutated"
	require.Equal(t, "a", s.List()[0].Name)
}

func TestLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	s := New(mem)
	for _, n := range []string{"a", "b", "c"} {
		in := widget(n)
		in.Price = 12.34
		in.MonthlyDemand = 0.3
		_, err := s.Add(ctx, in)
		require.NoError(t, err)
	}
	want := s.List()

	again := New(mem)
	require.NoError(t, again.Load(ctx))
	require.Equal(t, want, again.List())

	// ids keep increasing after a reload even with a clock in the past
	past := New(mem, WithClock(func() time.Time { return time.UnixMilli(1) }))
	require.NoError(t, past.Load(ctx))
	it, err := past.Add(ctx, widget("d"))
	require.NoError(t, err)
	require.Greater(t, it.ID, want[len(want)-1].ID)
}

func TestLoadValidBlobKept(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, mem.Save(ctx, DefaultKey, []byte(storedBlob(t, func([]model.Item) {}))))
	s := New(mem)
	require.NoError(t, s.Load(ctx))
	require.Len(t, s.List(), 2)
}

func TestLoadAbsentIsEmpty(t *testing.T) {
	s := New(storage.NewMemory())
	require.NoError(t, s.Load(context.Background()))
	require.Empty(t, s.List())
}

func storedBlob(t *testing.T, mutate func([]model.Item)) string {
	t.Helper()
	s := New(storage.NewMemory())
	for _, n := range []string{"a", "b"} {
		_, err := s.Add(context.Background(), widget(n))
		require.NoError(t, err)
	}
	items := s.List()
	mutate(items)
	blob, err := Encode(items)
	require.NoError(t, err)
	return string(blob)
}

func TestLoadCorruptResetsAndClears(t *testing.T) {
	ctx := context.Background()
	for name, blob := range map[string]string{
		"malformed":      `{not json`,
		"wrong shape":    `{"id":1}`,
		"missing fields": `[{"id":1}]`,
		"duplicate id":   storedBlob(t, func(items []model.Item) { items[1].ID = items[0].ID }),
		"blank category": storedBlob(t, func(items []model.Item) { items[1].Category = "" }),
		"zero id":        storedBlob(t, func(items []model.Item) { items[0].ID = 0 }),
		"level mismatch": storedBlob(t, func(items []model.Item) { items[0].RiskLevel = model.RiskLow }),
		"score too high": storedBlob(t, func(items []model.Item) { items[0].RiskScore = 250 }),
	} {
		t.Run(name, func(t *testing.T) {
			f := &flakyStorage{Memory: storage.NewMemory()}
			require.NoError(t, f.Memory.Save(ctx, DefaultKey, []byte(blob)))
			s := New(f)
			require.NoError(t, s.Load(ctx))
			require.Empty(t, s.List())
			require.Equal(t, 1, f.deletes)
			got, err := f.Memory.Load(ctx, DefaultKey)
			require.NoError(t, err)
			require.Nil(t, got)
		})
	}
}

func TestLoadReadFailure(t *testing.T) {
	f := &flakyStorage{Memory: storage.NewMemory(), failLoad: true}
	s := New(f)
	require.Error(t, s.Load(context.Background()))
	require.Empty(t, s.List())
}

func TestPersistFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	f := &flakyStorage{Memory: storage.NewMemory(), failSave: true}
	s := New(f)
	it, err := s.Add(ctx, widget("a"))
	require.ErrorIs(t, err, ErrPersist)
	require.NotZero(t, it.ID)
	require.Equal(t, []model.Item{it}, s.List())

	removed, err := s.Remove(ctx, it.ID)
	require.ErrorIs(t, err, ErrPersist)
	require.True(t, removed)
	require.Empty(t, s.List())
}

func TestWithKey(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	s := New(mem, WithKey("catalog"))
	_, err := s.Add(ctx, widget("a"))
	require.NoError(t, err)
	blob, err := mem.Load(ctx, "catalog")
	require.NoError(t, err)
	require.NotEmpty(t, blob)
	blob, err = mem.Load(ctx, DefaultKey)
	require.NoError(t, err)
	require.Nil(t, blob)
}

func TestEncodeEmpty(t *testing.T) {
	b, err := Encode(nil)
	require.NoError(t, err)
	require.Equal(t, "[]", string(b))
	s := New(storage.NewMemory())
	require.Equal(t, 0, s.Len())
}
