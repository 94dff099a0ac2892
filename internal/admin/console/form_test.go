package console

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"finitefield.org/catalog-admin/internal/admin/catalog"
)

func TestFormInputPayload(t *testing.T) {
	t.Parallel()

	payload := FormInput{Title: "Lamp", Price: " 12.5 ", Description: "Desk", CategoryID: "3", Image: "https://x/l.png"}.Payload()
	require.Equal(t, "Lamp", payload.Title)
	require.NotNil(t, payload.Price)
	require.Equal(t, 12.5, *payload.Price)
	require.NotNil(t, payload.CategoryID)
	require.Equal(t, 3, *payload.CategoryID)
	require.Equal(t, []string{"https://x/l.png"}, payload.Images)

	cases := []FormInput{
		{Price: "abc", CategoryID: "x"},
		{Price: "NaN", CategoryID: ""},
		{Price: "Infinity", CategoryID: "-"},
		{Price: "1e999", CategoryID: "0x"},
		{Price: ".", CategoryID: " "},
	}
	for _, in := range cases {
		p := in.Payload()
		require.Nil(t, p.Price, "price %q", in.Price)
		require.Nil(t, p.CategoryID, "category %q", in.CategoryID)
		require.Equal(t, []string{""}, p.Images)
	}
}

func TestFormInputPayloadReadsNumericPrefix(t *testing.T) {
	t.Parallel()

	prices := map[string]float64{
		"12abc":    12,
		" -3.5kg":  -3.5,
		".5":       0.5,
		"7.":       7,
		"1e2x":     100,
		"2e":       2,
		"+4.25e-1": 0.425,
	}
	for raw, want := range prices {
		p := FormInput{Price: raw}.Payload()
		require.NotNil(t, p.Price, "price %q", raw)
		require.InDelta(t, want, *p.Price, 1e-9, "price %q", raw)
	}

	categories := map[string]int{
		"3.7":  3,
		" 12b": 12,
		"-4":   -4,
		"0x1F": 31,
		"007":  7,
	}
	for raw, want := range categories {
		p := FormInput{CategoryID: raw}.Payload()
		require.NotNil(t, p.CategoryID, "category %q", raw)
		require.Equal(t, want, *p.CategoryID, "category %q", raw)
	}
}

func TestSaveCreateIssuesOneCreateAndOneRefresh(t *testing.T) {
	t.Parallel()

	svc := newRecordingService(3)
	list := NewListController(svc, nil)
	form := NewFormController(svc, list, nil)
	state := NewState(nil, 10)
	frame := NewFrame()

	err := form.Save(context.Background(), state, FormInput{Title: "Lamp", Price: "9.99", CategoryID: "2", Image: "https://x/l.png"}, frame)
	require.NoError(t, err)

	require.Len(t, svc.creates, 1)
	require.Empty(t, svc.updates)
	require.Equal(t, 1, svc.searchCount())

	require.True(t, frame.FormClosed())
	require.Equal(t, []Notice{{Message: MessageCreated, Tone: ToneSuccess}}, frame.Notices())
	require.False(t, frame.Loading())

	rows, _, rendered := frame.Table()
	require.True(t, rendered)
	require.Len(t, rows, 4)
	require.Equal(t, "Lamp", rows[3].Title)
	require.False(t, state.Snapshot().HasDraft)
}

func TestSaveUpdateUsesProductID(t *testing.T) {
	t.Parallel()

	svc := newRecordingService(3)
	form := NewFormController(svc, NewListController(svc, nil), nil)
	frame := NewFrame()

	err := form.Save(context.Background(), NewState(nil, 10), FormInput{ID: "2", Title: "Renamed", Price: "1", CategoryID: "2"}, frame)
	require.NoError(t, err)
	require.Len(t, svc.updates, 1)
	require.Equal(t, 2, svc.updates[0].id)
	require.Empty(t, svc.creates)
	require.Equal(t, MessageUpdated, frame.Notices()[0].Message)
}

func TestSaveFailureKeepsDraft(t *testing.T) {
	t.Parallel()

	svc := newRecordingService(3)
	svc.saveErr = &catalog.Error{Kind: catalog.ErrSave, Op: "create", StatusCode: 400, Body: "bad"}
	form := NewFormController(svc, NewListController(svc, nil), nil)
	state := NewState(nil, 10)
	frame := NewFrame()

	input := FormInput{Title: "Lamp", Price: "oops", CategoryID: "2"}
	err := form.Save(context.Background(), state, input, frame)
	require.ErrorIs(t, err, catalog.ErrSave)

	require.True(t, frame.FormClosed(), "the form closes before the request completes")
	require.Equal(t, []Notice{{Message: MessageSaveFailed, Tone: ToneDanger}}, frame.Notices())
	require.Zero(t, svc.searchCount(), "a failed save does not refresh")
	require.False(t, frame.Loading())
	require.True(t, state.Snapshot().HasDraft)

	reopen := NewFrame()
	form.OpenCreate(state, reopen)
	opened, ok := reopen.Form()
	require.True(t, ok)
	require.Equal(t, FormModeCreate, opened.Mode)
	require.Equal(t, input, opened.Input)
}

func TestSaveRejectsNonNumericID(t *testing.T) {
	t.Parallel()

	svc := newRecordingService(1)
	form := NewFormController(svc, NewListController(svc, nil), nil)
	frame := NewFrame()

	err := form.Save(context.Background(), NewState(nil, 10), FormInput{ID: "abc", Title: "X"}, frame)
	require.ErrorIs(t, err, catalog.ErrSave)
	require.Empty(t, svc.updates)
	require.Equal(t, ToneDanger, frame.Notices()[0].Tone)
}

func TestOpenEditPrefillsFromProduct(t *testing.T) {
	t.Parallel()

	state := NewState(nil, 10)
	state.Products = []catalog.Product{
		{ID: 7, Title: "Chair", Price: 12.5, Description: "Oak", Images: []string{`["https://x/c.png"]`}},
	}
	form := NewFormController(newRecordingService(0), nil, nil)
	frame := NewFrame()

	require.True(t, form.OpenEdit(state, 7, frame))
	opened, _ := frame.Form()
	require.Equal(t, FormModeEdit, opened.Mode)
	require.Equal(t, FormInput{
		ID:          "7",
		Title:       "Chair",
		Price:       "12.5",
		Description: "Oak",
		CategoryID:  "1",
		Image:       `["https://x/c.png"]`,
	}, opened.Input)

	require.False(t, form.OpenEdit(state, 99, NewFrame()))
}

func TestOpenEditPrefersDraftForSameProduct(t *testing.T) {
	t.Parallel()

	state := NewState(nil, 10)
	state.Products = []catalog.Product{{ID: 7, Title: "Chair"}}
	state.Draft = &FormInput{ID: "7", Title: "Chair v2"}
	form := NewFormController(newRecordingService(0), nil, nil)

	frame := NewFrame()
	require.True(t, form.OpenEdit(state, 7, frame))
	opened, _ := frame.Form()
	require.Equal(t, "Chair v2", opened.Input.Title)

	create := NewFrame()
	form.OpenCreate(state, create)
	blank, _ := create.Form()
	require.Empty(t, blank.Input.Title, "an edit draft is not offered for create")
	require.Empty(t, blank.Input.CategoryID, "the create form opens blank")
}

func TestSaveRefreshFailureStillReportsSuccess(t *testing.T) {
	t.Parallel()

	svc := newRecordingService(1)
	svc.search = func(context.Context, catalog.Query) (catalog.SearchResult, error) {
		return catalog.SearchResult{}, &catalog.Error{Kind: catalog.ErrNetwork, Op: "search", Err: errors.New("down")}
	}
	form := NewFormController(svc, NewListController(svc, nil), nil)
	frame := NewFrame()

	require.NoError(t, form.Save(context.Background(), NewState(nil, 10), FormInput{Title: "A", Price: "1", CategoryID: "2"}, frame))
	require.Equal(t, MessageCreated, frame.Notices()[0].Message)
	require.Equal(t, MessageLoadFailed, frame.Error())
}
