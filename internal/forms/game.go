package forms

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/library"
)

// Field names a game form field by its wire name.
type Field string

const (
	FieldTitle              Field = "titulo"
	FieldGenre              Field = "genero"
	FieldPlatform           Field = "plataforma"
	FieldReleaseYear        Field = "añoLanzamiento"
	FieldDeveloper          Field = "desarrollador"
	FieldCover              Field = "imagenPortada"
	FieldDescription        Field = "descripcion"
	FieldCompleted          Field = "completado"
	FieldAchievementsEarned Field = "logrosObtenidos"
	FieldAchievementsTotal  Field = "logrosTotales"
)

// GameFields lists the editable game fields in display order.
var GameFields = []Field{
	FieldTitle,
	FieldGenre,
	FieldPlatform,
	FieldReleaseYear,
	FieldDeveloper,
	FieldCover,
	FieldDescription,
	FieldAchievementsEarned,
	FieldAchievementsTotal,
	FieldCompleted,
}

// GameDraft is the in-progress state of a game form.
type GameDraft struct {
	Title              string `label:"Título" validate:"required"`
	Genre              string `label:"Género" validate:"required,genre"`
	Platform           string `label:"Plataforma" validate:"required,platform"`
	ReleaseYear        int    `label:"Año de lanzamiento" validate:"releaseyear"`
	Developer          string `label:"Desarrollador" validate:"required"`
	CoverURL           string `label:"Portada" validate:"omitempty,url"`
	Description        string
	Completed          bool
	AchievementsEarned int `label:"Logros obtenidos" validate:"gte=0"`
	AchievementsTotal  int `label:"Logros totales" validate:"gte=0"`
}

// Input converts the draft to a request body with text fields trimmed.
func (d GameDraft) Input() api.GameInput {
	return api.GameInput{
		Title:              strings.TrimSpace(d.Title),
		Genre:              d.Genre,
		Platform:           d.Platform,
		ReleaseYear:        d.ReleaseYear,
		Developer:          strings.TrimSpace(d.Developer),
		CoverURL:           strings.TrimSpace(d.CoverURL),
		Description:        strings.TrimSpace(d.Description),
		Completed:          d.Completed,
		AchievementsEarned: d.AchievementsEarned,
		AchievementsTotal:  d.AchievementsTotal,
	}
}

// GameSaver persists games. *api.Client satisfies it.
type GameSaver interface {
	CreateGame(ctx context.Context, in api.GameInput) (api.Game, error)
	UpdateGame(ctx context.Context, id string, in api.GameInput) (api.Game, error)
}

// GameForm edits a new or existing game. A form created from a seed is in
// edit mode: its identity cannot change and it never searches metadata.
type GameForm struct {
	id    string
	edit  bool
	draft GameDraft
}

// NewGameForm starts a form. A nil seed creates a new game with the catalog
// defaults and the current year.
func NewGameForm(seed *api.Game) *GameForm {
	if seed == nil {
		return &GameForm{draft: GameDraft{
			Genre:       library.DefaultGenre,
			Platform:    library.DefaultPlatform,
			ReleaseYear: time.Now().Year(),
		}}
	}
	return &GameForm{
		id:   seed.ID,
		edit: true,
		draft: GameDraft{
			Title:              seed.Title,
			Genre:              seed.Genre,
			Platform:           seed.Platform,
			ReleaseYear:        seed.ReleaseYear,
			Developer:          seed.Developer,
			CoverURL:           seed.CoverURL,
			Description:        seed.Description,
			Completed:          seed.Completed,
			AchievementsEarned: seed.AchievementsEarned,
			AchievementsTotal:  seed.AchievementsTotal,
		},
	}
}

// IsEdit reports whether the form edits an existing game.
func (f *GameForm) IsEdit() bool { return f.edit }

// ID returns the id of the edited game, or "" in create mode.
func (f *GameForm) ID() string { return f.id }

// Draft returns a copy of the current values.
func (f *GameForm) Draft() GameDraft { return f.draft }

// Set merges one field. Numeric fields are coerced, so invalid input stores 0.
func (f *GameForm) Set(field Field, value string) error {
	d := &f.draft
	switch field {
	case FieldTitle:
		d.Title = value
	case FieldGenre:
		d.Genre = value
	case FieldPlatform:
		d.Platform = value
	case FieldReleaseYear:
		d.ReleaseYear = CoerceInt(value)
	case FieldDeveloper:
		d.Developer = value
	case FieldCover:
		d.CoverURL = value
	case FieldDescription:
		d.Description = value
	case FieldCompleted:
		d.Completed = CoerceBool(value)
	case FieldAchievementsEarned:
		d.AchievementsEarned = CoerceInt(value)
	case FieldAchievementsTotal:
		d.AchievementsTotal = CoerceInt(value)
	default:
		return fmt.Errorf("unknown game field %q", field)
	}
	return nil
}

// Value returns the text representation of one field.
func (f *GameForm) Value(field Field) string {
	d := f.draft
	switch field {
	case FieldTitle:
		return d.Title
	case FieldGenre:
		return d.Genre
	case FieldPlatform:
		return d.Platform
	case FieldReleaseYear:
		return itoa(d.ReleaseYear)
	case FieldDeveloper:
		return d.Developer
	case FieldCover:
		return d.CoverURL
	case FieldDescription:
		return d.Description
	case FieldCompleted:
		if d.Completed {
			return "true"
		}
		return "false"
	case FieldAchievementsEarned:
		return itoa(d.AchievementsEarned)
	case FieldAchievementsTotal:
		return itoa(d.AchievementsTotal)
	default:
		return ""
	}
}

// ToggleCompleted flips the completed flag.
func (f *GameForm) ToggleCompleted() { f.draft.Completed = !f.draft.Completed }

// CycleGenre moves the genre to the next catalog entry.
func (f *GameForm) CycleGenre() {
	f.draft.Genre = library.CycleValue(library.Genres, f.draft.Genre, false)
}

// CyclePlatform moves the platform to the next catalog entry.
func (f *GameForm) CyclePlatform() {
	f.draft.Platform = library.CycleValue(library.Platforms, f.draft.Platform, false)
}

// SearchTerm returns the title to look up, and false when no lookup should
// happen: in edit mode or while the title is blank.
func (f *GameForm) SearchTerm() (string, bool) {
	if f.edit {
		return "", false
	}
	title := strings.TrimSpace(f.draft.Title)
	return title, title != ""
}

// ApplySuggestion copies a metadata search result into the draft. Only the
// title, release year and cover image are overwritten; a result without a
// usable release date keeps the current year.
func (f *GameForm) ApplySuggestion(r api.SearchResult) {
	f.draft.Title = r.Name
	if year := r.ReleaseYear(); year > 0 {
		f.draft.ReleaseYear = year
	}
	f.draft.CoverURL = r.BackgroundImage
}

// Validate checks the draft against the client-side rules.
func (f *GameForm) Validate() error {
	return check(f.draft)
}

// GameSubmission is a validated draft captured for sending.
type GameSubmission struct {
	ID    string
	Input api.GameInput
}

// Prepare validates the draft and captures it, so the request can run on
// another goroutine while the form keeps being edited.
func (f *GameForm) Prepare() (GameSubmission, error) {
	if err := f.Validate(); err != nil {
		return GameSubmission{}, err
	}
	return GameSubmission{ID: f.id, Input: f.draft.Input()}, nil
}

// Send creates the game, or updates it when the submission carries an id.
func (s GameSubmission) Send(ctx context.Context, saver GameSaver) (api.Game, error) {
	if s.ID != "" {
		return saver.UpdateGame(ctx, s.ID, s.Input)
	}
	return saver.CreateGame(ctx, s.Input)
}

// Submit validates and saves the draft. Validation failures return a
// *ValidationError without touching the network. The form stays as is on
// any error so the user can correct and resubmit.
func (f *GameForm) Submit(ctx context.Context, saver GameSaver) (api.Game, error) {
	sub, err := f.Prepare()
	if err != nil {
		return api.Game{}, err
	}
	return sub.Send(ctx, saver)
}
