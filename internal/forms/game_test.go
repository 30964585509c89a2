package forms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/plusultra/internal/api"
)

type fakeGameSaver struct {
	created []api.GameInput
	updated map[string]api.GameInput
	err     error
}

func (f *fakeGameSaver) CreateGame(_ context.Context, in api.GameInput) (api.Game, error) {
	f.created = append(f.created, in)
	if f.err != nil {
		return api.Game{}, f.err
	}
	return api.Game{ID: "new", Title: in.Title}, nil
}

func (f *fakeGameSaver) UpdateGame(_ context.Context, id string, in api.GameInput) (api.Game, error) {
	if f.updated == nil {
		f.updated = map[string]api.GameInput{}
	}
	f.updated[id] = in
	if f.err != nil {
		return api.Game{}, f.err
	}
	return api.Game{ID: id, Title: in.Title}, nil
}

func TestNewGameForm_Defaults(t *testing.T) {
	f := NewGameForm(nil)

	d := f.Draft()
	assert.False(t, f.IsEdit())
	assert.Equal(t, "RPG", d.Genre)
	assert.Equal(t, "PC", d.Platform)
	assert.Equal(t, time.Now().Year(), d.ReleaseYear)
	assert.Empty(t, f.ID())
}

func TestGameForm_SetCoercesNumbers(t *testing.T) {
	f := NewGameForm(nil)

	require.NoError(t, f.Set(FieldReleaseYear, "1997"))
	require.NoError(t, f.Set(FieldAchievementsEarned, ""))
	require.NoError(t, f.Set(FieldAchievementsTotal, "abc"))

	d := f.Draft()
	assert.Equal(t, 1997, d.ReleaseYear)
	assert.Zero(t, d.AchievementsEarned)
	assert.Zero(t, d.AchievementsTotal)
	assert.Equal(t, "1997", f.Value(FieldReleaseYear))

	assert.Error(t, f.Set(Field("_id"), "hijack"))
}

func TestGameForm_EditModeKeepsIdentity(t *testing.T) {
	seed := &api.Game{ID: "g1", Title: "Hades", Genre: "Acción", Platform: "PC", ReleaseYear: 2020, Developer: "Supergiant"}
	f := NewGameForm(seed)

	require.NoError(t, f.Set(FieldTitle, "Hades II"))
	assert.True(t, f.IsEdit())
	assert.Equal(t, "g1", f.ID())

	_, ok := f.SearchTerm()
	assert.False(t, ok, "edit mode never searches")
}

func TestGameForm_SearchTerm(t *testing.T) {
	f := NewGameForm(nil)

	_, ok := f.SearchTerm()
	assert.False(t, ok)

	require.NoError(t, f.Set(FieldTitle, "   "))
	_, ok = f.SearchTerm()
	assert.False(t, ok, "blank title never searches")

	require.NoError(t, f.Set(FieldTitle, " Halo "))
	term, ok := f.SearchTerm()
	assert.True(t, ok)
	assert.Equal(t, "Halo", term)
}

func TestGameForm_ApplySuggestion(t *testing.T) {
	f := NewGameForm(nil)
	require.NoError(t, f.Set(FieldDeveloper, "Bungie"))
	require.NoError(t, f.Set(FieldGenre, "Acción"))

	f.ApplySuggestion(api.SearchResult{Name: "Halo: Combat Evolved", Released: "2001-11-15", BackgroundImage: "https://img/halo.jpg"})

	d := f.Draft()
	assert.Equal(t, "Halo: Combat Evolved", d.Title)
	assert.Equal(t, 2001, d.ReleaseYear)
	assert.Equal(t, "https://img/halo.jpg", d.CoverURL)
	assert.Equal(t, "Bungie", d.Developer, "other fields are left alone")
	assert.Equal(t, "Acción", d.Genre)

	f.ApplySuggestion(api.SearchResult{Name: "Unreleased"})
	assert.Equal(t, 2001, f.Draft().ReleaseYear, "missing release date keeps the year")
}

func TestGameForm_Validate(t *testing.T) {
	f := NewGameForm(nil)

	err := f.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("Title"))
	assert.True(t, verr.Has("Developer"))
	assert.Equal(t, "Título es obligatorio.", verr.First())

	require.NoError(t, f.Set(FieldTitle, "Celeste"))
	require.NoError(t, f.Set(FieldDeveloper, "Maddy Makes Games"))
	require.NoError(t, f.Set(FieldReleaseYear, "1969"))
	require.ErrorAs(t, f.Validate(), &verr)
	assert.True(t, verr.Has("ReleaseYear"))

	require.NoError(t, f.Set(FieldReleaseYear, "2018"))
	require.NoError(t, f.Set(FieldGenre, "Polka"))
	require.ErrorAs(t, f.Validate(), &verr)
	assert.Equal(t, "Género no es una opción válida.", verr.First())

	require.NoError(t, f.Set(FieldGenre, "Aventura"))
	assert.NoError(t, f.Validate())
}

func TestGameForm_SubmitCreatesOrUpdates(t *testing.T) {
	saver := &fakeGameSaver{}

	create := NewGameForm(nil)
	require.NoError(t, create.Set(FieldTitle, "  Celeste "))
	require.NoError(t, create.Set(FieldDeveloper, "EXOK"))
	game, err := create.Submit(context.Background(), saver)
	require.NoError(t, err)
	assert.Equal(t, "new", game.ID)
	require.Len(t, saver.created, 1)
	assert.Equal(t, "Celeste", saver.created[0].Title)

	edit := NewGameForm(&api.Game{ID: "g9", Title: "Celeste", Genre: "Aventura", Platform: "PC", ReleaseYear: 2018, Developer: "EXOK"})
	edit.ToggleCompleted()
	_, err = edit.Submit(context.Background(), saver)
	require.NoError(t, err)
	assert.True(t, saver.updated["g9"].Completed)
	assert.Len(t, saver.created, 1, "edit mode must not create")
}

func TestGameForm_InvalidNeverSends(t *testing.T) {
	saver := &fakeGameSaver{}
	_, err := NewGameForm(nil).Submit(context.Background(), saver)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, saver.created)
}

func TestGameForm_ServerErrorKeepsDraft(t *testing.T) {
	saver := &fakeGameSaver{err: errors.New("duplicado")}
	f := NewGameForm(nil)
	require.NoError(t, f.Set(FieldTitle, "Tunic"))
	require.NoError(t, f.Set(FieldDeveloper, "Andrew Shouldice"))

	_, err := f.Submit(context.Background(), saver)
	require.Error(t, err)
	assert.Equal(t, "Tunic", f.Draft().Title)
}

func TestGameForm_Cycles(t *testing.T) {
	f := NewGameForm(nil)
	f.CycleGenre()
	assert.NotEqual(t, "RPG", f.Draft().Genre)
	f.CyclePlatform()
	assert.NotEqual(t, "PC", f.Draft().Platform)
}
