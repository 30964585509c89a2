package forms

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/library"
)

const (
	FieldRating     Field = "puntuacion"
	FieldText       Field = "textoReseña"
	FieldHours      Field = "horasJugadas"
	FieldDifficulty Field = "dificultad"
	FieldRecommend  Field = "recomendaria"
)

// Review form defaults.
const (
	DefaultRating    = 3
	MinRating        = 1
	MaxRating        = 5
	DefaultRecommend = true
)

// ReviewDraft is the in-progress state of a review form.
type ReviewDraft struct {
	GameID         string  `label:"Juego" validate:"required"`
	Rating         int     `label:"Puntuación" validate:"min=1,max=5"`
	Text           string  `label:"Reseña"`
	HoursPlayed    float64 `label:"Horas jugadas" validate:"gte=0"`
	Difficulty     string  `label:"Dificultad" validate:"required,difficulty"`
	WouldRecommend bool
}

// Input converts the draft to a request body.
func (d ReviewDraft) Input() api.ReviewInput {
	return api.ReviewInput{
		GameID:         d.GameID,
		Rating:         d.Rating,
		Text:           strings.TrimSpace(d.Text),
		HoursPlayed:    d.HoursPlayed,
		Difficulty:     d.Difficulty,
		WouldRecommend: d.WouldRecommend,
	}
}

// ReviewSaver persists reviews. *api.Client satisfies it.
type ReviewSaver interface {
	CreateReview(ctx context.Context, in api.ReviewInput) (api.Review, error)
	UpdateReview(ctx context.Context, id string, in api.ReviewInput) (api.Review, error)
}

// ReviewForm edits a new or existing review of one game.
type ReviewForm struct {
	id    string
	draft ReviewDraft
}

// NewReviewForm starts a review of gameID. A non-nil seed edits that review.
func NewReviewForm(gameID string, seed *api.Review) *ReviewForm {
	if seed == nil {
		return &ReviewForm{draft: ReviewDraft{
			GameID:         gameID,
			Rating:         DefaultRating,
			Difficulty:     library.DefaultDifficulty,
			WouldRecommend: DefaultRecommend,
		}}
	}
	return &ReviewForm{
		id: seed.ID,
		draft: ReviewDraft{
			GameID:         gameID,
			Rating:         seed.Rating,
			Text:           seed.Text,
			HoursPlayed:    seed.HoursPlayed,
			Difficulty:     seed.Difficulty,
			WouldRecommend: seed.WouldRecommend,
		},
	}
}

// IsEdit reports whether the form edits an existing review.
func (f *ReviewForm) IsEdit() bool { return f.id != "" }

// ID returns the id of the edited review, or "".
func (f *ReviewForm) ID() string { return f.id }

// Draft returns a copy of the current values.
func (f *ReviewForm) Draft() ReviewDraft { return f.draft }

// Set merges one field with numeric coercion.
func (f *ReviewForm) Set(field Field, value string) error {
	d := &f.draft
	switch field {
	case FieldRating:
		d.Rating = CoerceInt(value)
	case FieldText:
		d.Text = value
	case FieldHours:
		d.HoursPlayed = CoerceFloat(value)
	case FieldDifficulty:
		d.Difficulty = value
	case FieldRecommend:
		d.WouldRecommend = CoerceBool(value)
	default:
		return fmt.Errorf("unknown review field %q", field)
	}
	return nil
}

// Value returns the text representation of one field.
func (f *ReviewForm) Value(field Field) string {
	d := f.draft
	switch field {
	case FieldRating:
		return itoa(d.Rating)
	case FieldText:
		return d.Text
	case FieldHours:
		return ftoa(d.HoursPlayed)
	case FieldDifficulty:
		return d.Difficulty
	case FieldRecommend:
		if d.WouldRecommend {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// SetRating sets the star rating. Out of range values are kept and rejected
// by Validate.
func (f *ReviewForm) SetRating(n int) { f.draft.Rating = n }

// CycleDifficulty moves to the next difficulty.
func (f *ReviewForm) CycleDifficulty() {
	f.draft.Difficulty = library.CycleValue(library.Difficulties, f.draft.Difficulty, false)
}

// ToggleRecommend flips the recommendation flag.
func (f *ReviewForm) ToggleRecommend() { f.draft.WouldRecommend = !f.draft.WouldRecommend }

// Validate checks the draft against the client-side rules.
func (f *ReviewForm) Validate() error {
	return check(f.draft)
}

// ReviewSubmission is a validated review captured for sending.
type ReviewSubmission struct {
	ID     string
	GameID string
	Input  api.ReviewInput
}

// Prepare validates and captures the draft.
func (f *ReviewForm) Prepare() (ReviewSubmission, error) {
	if err := f.Validate(); err != nil {
		return ReviewSubmission{}, err
	}
	return ReviewSubmission{ID: f.id, GameID: f.draft.GameID, Input: f.draft.Input()}, nil
}

// Send creates the review, or updates it when the submission carries an id.
func (s ReviewSubmission) Send(ctx context.Context, saver ReviewSaver) (api.Review, error) {
	if s.ID != "" {
		return saver.UpdateReview(ctx, s.ID, s.Input)
	}
	return saver.CreateReview(ctx, s.Input)
}

// Submit validates and saves the review.
func (f *ReviewForm) Submit(ctx context.Context, saver ReviewSaver) (api.Review, error) {
	sub, err := f.Prepare()
	if err != nil {
		return api.Review{}, err
	}
	return sub.Send(ctx, saver)
}
