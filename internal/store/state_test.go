package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/seesaw/internal/beam"
)

func TestFileKV(t *testing.T) {
	ctx := context.Background()
	kv := NewFileKV(filepath.Join(t.TempDir(), "nested"))

	_, err := kv.Get(ctx, Key)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, kv.Set(ctx, Key, []byte(`{"a":1}`)))
	got, err := kv.Get(ctx, Key)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, kv.Delete(ctx, Key))
	require.NoError(t, kv.Delete(ctx, Key))
	_, err = kv.Get(ctx, Key)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFileKV_SanitizesKey(t *testing.T) {
	dir := t.TempDir()
	kv := NewFileKV(dir)
	require.NoError(t, kv.Set(context.Background(), "../escape/me", []byte("x")))

	_, err := os.Stat(filepath.Join(dir, ".._escape_me.json"))
	assert.NoError(t, err)
}

func TestState_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	p := beam.DefaultParams()
	st := NewState(NewFileKV(t.TempDir()), p, nil)

	_, ok := st.Load(ctx)
	assert.False(t, ok)

	rec := Record{
		Placed:     []beam.Item{{Weight: 5, Offset: -100}, {Weight: 5, Offset: 100}},
		Logs:       []string{"5kg dropped on right side at 100px from center"},
		NextWeight: 9,
	}
	st.Save(ctx, rec)

	got, ok := st.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, rec, got)

	st.Clear(ctx)
	_, ok = st.Load(ctx)
	assert.False(t, ok)
}

func TestState_MalformedIsFresh(t *testing.T) {
	ctx := context.Background()
	kv := NewFileKV(t.TempDir())
	require.NoError(t, kv.Set(ctx, Key, []byte("not json at all")))

	_, ok := NewState(kv, beam.DefaultParams(), nil).Load(ctx)
	assert.False(t, ok)
}

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) ([]byte, error) { return nil, errors.New("quota") }
func (brokenKV) Set(context.Context, string, []byte) error   { return errors.New("quota") }
func (brokenKV) Delete(context.Context, string) error        { return errors.New("quota") }

func TestState_FailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	st := NewState(brokenKV{}, beam.DefaultParams(), nil)

	assert.NotPanics(t, func() {
		st.Save(ctx, Record{NextWeight: 3})
		st.Clear(ctx)
	})
	_, ok := st.Load(ctx)
	assert.False(t, ok)
}

func TestConnectRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := ConnectRedis(ctx, "redis://127.0.0.1:1/0")
	assert.Error(t, err)

	_, err = ConnectRedis(ctx, "not a url")
	assert.Error(t, err)
}
