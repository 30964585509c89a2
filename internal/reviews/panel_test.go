package reviews

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/forms"
)

type fakeBackend struct {
	reviews   map[string][]api.Review
	listErr   error
	createErr error
	deleted   []string
	created   []api.ReviewInput
	lists     int
}

func (f *fakeBackend) ListReviews(_ context.Context, gameID string) ([]api.Review, error) {
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.reviews[gameID], nil
}

func (f *fakeBackend) CreateReview(_ context.Context, in api.ReviewInput) (api.Review, error) {
	if f.createErr != nil {
		return api.Review{}, f.createErr
	}
	f.created = append(f.created, in)
	r := api.Review{ID: "r-new", GameID: api.Ref(in.GameID), Rating: in.Rating}
	f.reviews[in.GameID] = append(f.reviews[in.GameID], r)
	return r, nil
}

func (f *fakeBackend) UpdateReview(_ context.Context, id string, in api.ReviewInput) (api.Review, error) {
	return api.Review{ID: id, Rating: in.Rating}, nil
}

func (f *fakeBackend) DeleteReview(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	for game, list := range f.reviews {
		kept := list[:0]
		for _, r := range list {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		f.reviews[game] = kept
	}
	return nil
}

func newBackend() *fakeBackend {
	return &fakeBackend{reviews: map[string][]api.Review{
		"g1": {{ID: "r1", GameID: "g1", Rating: 4}, {ID: "r2", GameID: "g1", Rating: 2}},
		"g2": {{ID: "r9", GameID: "g2", Rating: 5}},
	}}
}

func TestPanel_Load(t *testing.T) {
	p := NewPanel("g1")
	assert.Equal(t, StatusIdle, p.Status())

	require.NoError(t, p.Load(context.Background(), newBackend()))
	assert.Equal(t, StatusSuccess, p.Status())
	assert.Len(t, p.Reviews(), 2)

	r, ok := p.Find("r2")
	require.True(t, ok)
	assert.Equal(t, 2, r.Rating)
}

func TestPanel_LoadErrorKeepsReviews(t *testing.T) {
	backend := newBackend()
	p := NewPanel("g1")
	require.NoError(t, p.Load(context.Background(), backend))

	backend.listErr = errors.New("dial tcp: refused")
	require.Error(t, p.Load(context.Background(), backend))
	assert.Equal(t, StatusError, p.Status())
	assert.Equal(t, MsgLoadFailed, p.Err())
	assert.Len(t, p.Reviews(), 2)
}

func TestPanel_IgnoresOtherGameAndStaleResults(t *testing.T) {
	backend := newBackend()
	p := NewPanel("g1")

	other := NewPanel("g2").BeginLoad().Run(context.Background(), backend)
	assert.False(t, p.Apply(other), "result for another game is ignored")

	stale := p.BeginLoad()
	latest := p.BeginLoad()
	assert.False(t, p.Apply(stale.Run(context.Background(), backend)))
	assert.Equal(t, StatusLoading, p.Status())
	assert.True(t, p.Apply(latest.Run(context.Background(), backend)))
	assert.Equal(t, StatusSuccess, p.Status())
}

func TestPanel_SaveRefetchesAndReportsChange(t *testing.T) {
	backend := newBackend()
	p := NewPanel("g1")

	form := forms.NewReviewForm("g1", nil)
	form.SetRating(5)
	sub, err := form.Prepare()
	require.NoError(t, err)

	changed, err := p.Save(context.Background(), backend, sub)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Len(t, p.Reviews(), 3)
	assert.Equal(t, 1, backend.lists, "save is followed by one full re-fetch")
	require.Len(t, backend.created, 1)
	assert.Equal(t, "g1", backend.created[0].GameID)
}

func TestPanel_SaveFailure(t *testing.T) {
	backend := newBackend()
	backend.createErr = &api.Error{Status: 400, Message: "Ya reseñaste este juego"}
	p := NewPanel("g1")

	sub, err := forms.NewReviewForm("g1", nil).Prepare()
	require.NoError(t, err)
	changed, err := p.Save(context.Background(), backend, sub)
	require.Error(t, err)
	assert.False(t, changed)
	assert.Equal(t, "Ya reseñaste este juego", p.Err())
	assert.Zero(t, backend.lists)
}

func TestPanel_DeleteNeedsConfirmation(t *testing.T) {
	backend := newBackend()
	p := NewPanel("g1")
	require.NoError(t, p.Load(context.Background(), backend))

	changed, err := p.Delete(context.Background(), backend)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, backend.deleted, "no request without confirmation")

	p.RequestDelete("r1")
	p.CancelDelete()
	_, ok := p.Confirm()
	assert.False(t, ok)
	assert.Empty(t, backend.deleted)

	p.RequestDelete("r1")
	assert.Equal(t, "r1", p.PendingDelete())
	changed, err = p.Delete(context.Background(), backend)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"r1"}, backend.deleted)
	assert.Len(t, p.Reviews(), 1)
	assert.Empty(t, p.PendingDelete())
}

func TestPanel_ChangedSurvivesRefetchFailure(t *testing.T) {
	backend := newBackend()
	p := NewPanel("g1")
	p.RequestDelete("r2")
	backend.listErr = errors.New("timeout")

	changed, err := p.Delete(context.Background(), backend)
	require.Error(t, err)
	assert.True(t, changed)
	assert.Equal(t, StatusError, p.Status())
}
