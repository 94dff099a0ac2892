package console

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/catalog-admin/internal/admin/catalog"
)

func newTestShell(svc catalog.Service, clock *manualClock) *Shell {
	opts := Options{PageSizes: []int{5, 10, 20, 50}, DefaultPageSize: 10}
	if clock != nil {
		opts.AfterFunc = clock.AfterFunc
	}
	return NewShell(svc, opts)
}

func TestShellSearchIsDebouncedAndResetsPage(t *testing.T) {
	t.Parallel()

	svc := newRecordingService(30)
	clock := &manualClock{}
	shell := newTestShell(svc, clock)
	ctx := context.Background()

	_, err := shell.Load(ctx, NewFrame())
	require.NoError(t, err)
	_, err = shell.NextPage(ctx, NewFrame())
	require.NoError(t, err)
	require.Equal(t, 2, shell.Snapshot().CurrentPage)
	before := svc.searchCount()

	stale := shell.Search(ctx, "Product 1", NewFrame())
	frame := NewFrame()
	latest := shell.Search(ctx, "Product 2", frame)
	require.False(t, <-stale)
	require.Equal(t, before, svc.searchCount(), "nothing is fetched before the quiet period")

	clock.fire(1)
	require.True(t, <-latest)
	require.Equal(t, before+1, svc.searchCount())
	require.Equal(t, catalog.Query{Title: "Product 2", Offset: 0, Limit: 10}, svc.lastSearch())

	snap := shell.Snapshot()
	require.Equal(t, 1, snap.CurrentPage)
	require.Equal(t, "Product 2", snap.SearchTerm)
	rows, _, _ := frame.Table()
	require.Len(t, rows, 10, "Product 20 through Product 29")
}

func TestShellPagination(t *testing.T) {
	t.Parallel()

	svc := newRecordingService(22)
	shell := newTestShell(svc, nil)
	ctx := context.Background()

	_, err := shell.Load(ctx, NewFrame())
	require.NoError(t, err)

	applied, err := shell.PrevPage(ctx, NewFrame())
	require.NoError(t, err)
	require.False(t, applied)
	require.Equal(t, 1, svc.searchCount(), "previous on the first page does nothing")

	_, err = shell.NextPage(ctx, NewFrame())
	require.NoError(t, err)
	frame := NewFrame()
	_, err = shell.NextPage(ctx, frame)
	require.NoError(t, err)

	pager, _ := frame.Pagination()
	require.Equal(t, 3, pager.Page)
	require.True(t, pager.NextDisabled)
	require.Equal(t, 20, svc.lastSearch().Offset)

	applied, err = shell.NextPage(ctx, NewFrame())
	require.NoError(t, err)
	require.False(t, applied, "the last page cannot advance")
	require.Equal(t, 3, shell.Snapshot().CurrentPage)

	_, err = shell.PrevPage(ctx, NewFrame())
	require.NoError(t, err)
	require.Equal(t, 10, svc.lastSearch().Offset)
}

func TestShellChangePageSize(t *testing.T) {
	t.Parallel()

	svc := newRecordingService(22)
	shell := newTestShell(svc, nil)
	ctx := context.Background()

	_, err := shell.Load(ctx, NewFrame())
	require.NoError(t, err)
	_, err = shell.NextPage(ctx, NewFrame())
	require.NoError(t, err)

	_, err = shell.ChangePageSize(ctx, 7, NewFrame())
	require.ErrorIs(t, err, ErrInvalidPageSize)

	frame := NewFrame()
	_, err = shell.ChangePageSize(ctx, 5, frame)
	require.NoError(t, err)
	require.Equal(t, catalog.Query{Offset: 0, Limit: 5}, svc.lastSearch())
	rows, _, _ := frame.Table()
	require.Len(t, rows, 5)
	require.Equal(t, 1, shell.Snapshot().CurrentPage)
}

func TestShellSortToggleAndReset(t *testing.T) {
	t.Parallel()

	svc := newRecordingService(5)
	shell := newTestShell(svc, nil)
	ctx := context.Background()

	_, err := shell.Load(ctx, NewFrame())
	require.NoError(t, err)
	calls := svc.searchCount()

	asc := NewFrame()
	shell.SortBy(catalog.SortByPrice, asc)
	rows, sort, _ := asc.Table()
	require.Equal(t, 5, rows[0].ID, "cheapest first")
	require.Equal(t, "▲", sort.Indicator(catalog.SortByPrice))

	desc := NewFrame()
	shell.SortBy(catalog.SortByPrice, desc)
	rows, sort, _ = desc.Table()
	require.Equal(t, 1, rows[0].ID)
	require.Equal(t, "▼", sort.Indicator(catalog.SortByPrice))
	require.Equal(t, calls, svc.searchCount(), "sorting never fetches")

	export := string(shell.Export())
	require.True(t, strings.HasPrefix(export, "ID,Title,Price,Category\n1,\"Product 01\",99,\"Wear\"\n"))

	reload := NewFrame()
	_, err = shell.Load(ctx, reload)
	require.NoError(t, err)
	rows, sort, _ = reload.Table()
	require.Equal(t, 1, rows[0].ID)
	require.False(t, sort.Active(), "a refresh restores server order")

	again := NewFrame()
	shell.SortBy(catalog.SortByPrice, again)
	_, sort, _ = again.Table()
	require.Equal(t, "▲", sort.Indicator(catalog.SortByPrice), "the remembered direction keeps toggling")
}

func TestShellDetailUsesMemory(t *testing.T) {
	t.Parallel()

	svc := newRecordingService(3)
	shell := newTestShell(svc, nil)
	_, err := shell.Load(context.Background(), NewFrame())
	require.NoError(t, err)
	calls := svc.searchCount()

	frame := NewFrame()
	require.True(t, shell.ShowDetail(2, frame))
	product, ok := frame.Detail()
	require.True(t, ok)
	require.Equal(t, "Product 02", product.Title)
	require.Equal(t, "https://img.example/2.png", product.CleanImage)
	require.Equal(t, calls, svc.searchCount())

	require.False(t, shell.ShowDetail(42, NewFrame()))
}

func TestShellExportEmpty(t *testing.T) {
	t.Parallel()

	shell := newTestShell(newRecordingService(0), nil)
	require.Equal(t, "ID,Title,Price,Category\n", string(shell.Export()))
}
