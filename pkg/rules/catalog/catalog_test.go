package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"lipidhq/fragrules/pkg/rules/ast"
	"lipidhq/fragrules/pkg/rules/parser"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const pcH = `[GENERAL]
AmountOfChains=2
ChainLibrary=FA.xlsx
CAtomsFromName=.*?(\d+):\d+
DoubleBondsFromName=\d+:(\d+)
[HEAD]
!FRAGMENTS
Name=HG184 Formula=C5H15NO4P Charge=1 MSLevel=2 mandatory=true
!INTENSITIES
Equation=HG184>BASEPEAK*0.8
[CHAINS]
!FRAGMENTS
Name=FA1 Formula=$CHAIN Charge=1 MSLevel=2
Name=FA2 Formula=$CHAIN Charge=1 MSLevel=2
!INTENSITIES
Equation=FA1>FA2
`

// fakeClock hands out increasing timestamps.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type countingRecorder struct {
	mu        sync.Mutex
	created   int
	unchanged int
	pruned    int64
}

func (r *countingRecorder) RecordRevision(created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if created {
		r.created++
	} else {
		r.unchanged++
	}
}

func (r *countingRecorder) RecordPrune(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruned += n
}

func compile(t *testing.T, content, source string) *ast.RuleDocument {
	t.Helper()
	doc, err := parser.NewParser().ParseBytes([]byte(content), source)
	require.NoError(t, err)
	return doc
}

func openMemory(t *testing.T, opts ...Option) *Catalog {
	t.Helper()
	cat, err := Open(MemoryPath, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, cat.Close()) })
	return cat
}

func put(t *testing.T, cat *Catalog, source, content string) (Revision, bool) {
	t.Helper()
	rev, created, err := cat.Put(context.Background(), source, []byte(content), compile(t, content, source))
	require.NoError(t, err)
	return rev, created
}

func TestPut(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	cat := openMemory(t, WithClock(clock.Now))

	rev, created := put(t, cat, "rules/PC_H.frag.txt", pcH)

	assert.True(t, created)
	assert.Len(t, rev.ID, 36)
	assert.Equal(t, "rules/PC_H.frag.txt", rev.Source)
	assert.Equal(t, "PC", rev.LipidClass)
	assert.Equal(t, "H", rev.Adduct)
	assert.Equal(t, Checksum([]byte(pcH)), rev.Checksum)
	assert.Equal(t, clock.Now(), rev.CompiledAt)
	assert.Equal(t, 3, rev.Fragments)
	assert.Equal(t, 2, rev.IntensityRules)
	assert.True(t, strings.HasPrefix(string(rev.Canonical), "[GENERAL]\n"))

	got, err := cat.Get(context.Background(), rev.ID)
	require.NoError(t, err)
	assert.Equal(t, rev, got)
}

func TestPut_SameContentIsDeduplicated(t *testing.T) {
	rec := &countingRecorder{}
	cat := openMemory(t, WithRecorder(rec))

	first, created := put(t, cat, "PC_H.frag.txt", pcH)
	require.True(t, created)

	second, created := put(t, cat, "PC_H.frag.txt", pcH)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	edited := strings.Replace(pcH, "BASEPEAK*0.8", "BASEPEAK*0.5", 1)
	third, created := put(t, cat, "PC_H.frag.txt", edited)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, third.ID)

	// Reverting to old content is a new revision, not a match against history.
	fourth, created := put(t, cat, "PC_H.frag.txt", pcH)
	assert.True(t, created)
	assert.Equal(t, first.Checksum, fourth.Checksum)

	assert.Equal(t, 3, rec.created)
	assert.Equal(t, 1, rec.unchanged)
}

func TestLatestAndHistory(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cat := openMemory(t, WithClock(clock.Now))
	ctx := context.Background()

	var ids []string
	for _, factor := range []string{"0.8", "0.7", "0.6"} {
		rev, _ := put(t, cat, "PC_H.frag.txt", strings.Replace(pcH, "0.8", factor, 1))
		ids = append(ids, rev.ID)
		clock.Advance(time.Hour)
	}
	put(t, cat, "TG_NH4.frag.txt", pcH)

	latest, err := cat.Latest(ctx, "PC_H.frag.txt")
	require.NoError(t, err)
	assert.Equal(t, ids[2], latest.ID)

	history, err := cat.History(ctx, "PC_H.frag.txt")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{history[0].ID, history[1].ID, history[2].ID})

	empty, err := cat.History(ctx, "absent.frag.txt")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestList(t *testing.T) {
	cat := openMemory(t)

	put(t, cat, "TG_NH4.frag.txt", pcH)
	put(t, cat, "PC_H.frag.txt", pcH)
	newest, _ := put(t, cat, "PC_H.frag.txt", strings.Replace(pcH, "0.8", "0.9", 1))

	list, err := cat.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "PC_H.frag.txt", list[0].Source)
	assert.Equal(t, newest.ID, list[0].ID)
	assert.Equal(t, "TG_NH4.frag.txt", list[1].Source)
	assert.Equal(t, "TG", list[1].LipidClass)
	assert.Equal(t, "NH4", list[1].Adduct)
}

func TestNotFound(t *testing.T) {
	cat := openMemory(t)
	ctx := context.Background()

	_, err := cat.Get(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = cat.Latest(ctx, "PC_H.frag.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPing(t *testing.T) {
	cat, err := Open(MemoryPath)
	require.NoError(t, err)

	assert.NoError(t, cat.Ping(context.Background()))
	require.NoError(t, cat.Close())

	var storageErr *StorageError
	assert.ErrorAs(t, cat.Ping(context.Background()), &storageErr)
}

func TestRevisionDocument(t *testing.T) {
	cat := openMemory(t)
	rev, _ := put(t, cat, "PC_H.frag.txt", pcH)

	doc, err := rev.Document()
	require.NoError(t, err)
	assert.Equal(t, 1, doc.HeadFragments().Len())
	assert.Equal(t, 2, doc.ChainFragments().Len())
	assert.Equal(t, []string{"HG184>BASEPEAK*0.8"}, []string{doc.HeadIntensities()[0].Equation()})
}

func TestPrune(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	rec := &countingRecorder{}
	cat := openMemory(t, WithClock(clock.Now), WithRecorder(rec))
	ctx := context.Background()

	// Five revisions of PC_H one day apart, one old revision of TG_NH4.
	put(t, cat, "TG_NH4.frag.txt", pcH)
	for i := 0; i < 5; i++ {
		put(t, cat, "PC_H.frag.txt", strings.Replace(pcH, "0.8", "0."+string(rune('1'+i)), 1))
		clock.Advance(24 * time.Hour)
	}

	// Cutoff after day 3: days 0..2 are old, newest two are protected.
	removed, err := cat.Prune(ctx, start.Add(3*24*time.Hour), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.Equal(t, int64(3), rec.pruned)

	history, err := cat.History(ctx, "PC_H.frag.txt")
	require.NoError(t, err)
	assert.Len(t, history, 2)

	// The only revision of a source survives even when it is old.
	_, err = cat.Latest(ctx, "TG_NH4.frag.txt")
	assert.NoError(t, err)

	// keep < 1 still protects the newest revision.
	removed, err = cat.Prune(ctx, clock.Now().Add(time.Hour), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	list, err := cat.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	cat, err := Open(path)
	require.NoError(t, err)
	rev, _ := put(t, cat, "PC_H.frag.txt", pcH)
	require.NoError(t, cat.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Latest(context.Background(), "PC_H.frag.txt")
	require.NoError(t, err)
	assert.Equal(t, rev.ID, got.ID)
	assert.Equal(t, rev.Canonical, got.Canonical)
}

func TestPut_Concurrent(t *testing.T) {
	cat := openMemory(t)
	doc := compile(t, pcH, "PC_H.frag.txt")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := cat.Put(context.Background(), "PC_H.frag.txt", []byte(pcH), doc)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	history, err := cat.History(context.Background(), "PC_H.frag.txt")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestChecksum(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Checksum(nil))
}
