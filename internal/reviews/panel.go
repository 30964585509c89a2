package reviews

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/five82/plusultra/internal/api"
	"github.com/five82/plusultra/internal/forms"
)

// Messages shown when the backend gives no reason of its own.
const (
	MsgLoadFailed   = "Error al cargar las reseñas"
	MsgCreateFailed = "Error al crear reseña"
	MsgUpdateFailed = "Error al actualizar reseña"
	MsgDeleteFailed = "Error al eliminar reseña"

	ConfirmDeletePrompt = "¿Estás seguro de que quieres eliminar esta reseña?"
)

// Status is the state of the panel's last request.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Backend is the review surface of the API. *api.Client satisfies it.
type Backend interface {
	ListReviews(ctx context.Context, gameID string) ([]api.Review, error)
	CreateReview(ctx context.Context, in api.ReviewInput) (api.Review, error)
	UpdateReview(ctx context.Context, id string, in api.ReviewInput) (api.Review, error)
	DeleteReview(ctx context.Context, id string) error
}

// Request is an issued panel operation. It is built on the UI goroutine by a
// Begin method and executed elsewhere with Run.
type Request struct {
	GameID string
	Seq    uint64

	save     *forms.ReviewSubmission
	deleteID string
}

// Result is the outcome of a Request, to be passed back to Panel.Apply.
type Result struct {
	GameID  string
	Seq     uint64
	Reviews []api.Review
	Err     error
	// Changed is true when a mutation succeeded, even if the re-fetch that
	// followed it failed. The parent refreshes library aggregates on it.
	Changed  bool
	fallback string
}

// Run performs the request: the mutation if any, then a full re-fetch of the
// game's reviews.
func (r Request) Run(ctx context.Context, backend Backend) Result {
	res := Result{GameID: r.GameID, Seq: r.Seq, fallback: MsgLoadFailed}

	switch {
	case r.save != nil:
		res.fallback = MsgCreateFailed
		if r.save.ID != "" {
			res.fallback = MsgUpdateFailed
		}
		if _, err := r.save.Send(ctx, backend); err != nil {
			res.Err = err
			return res
		}
		res.Changed = true
	case r.deleteID != "":
		res.fallback = MsgDeleteFailed
		if err := backend.DeleteReview(ctx, r.deleteID); err != nil {
			res.Err = err
			return res
		}
		res.Changed = true
	}

	reviews, err := backend.ListReviews(ctx, r.GameID)
	if err != nil {
		res.Err = err
		res.fallback = MsgLoadFailed
		return res
	}
	res.Reviews = reviews
	return res
}

// Panel is the view-model of one game's reviews.
type Panel struct {
	gameID        string
	status        Status
	reviews       []api.Review
	errMsg        string
	pendingDelete string
	seq           uint64
}

// NewPanel returns an idle panel for gameID.
func NewPanel(gameID string) *Panel {
	return &Panel{gameID: gameID}
}

// GameID returns the game the panel belongs to.
func (p *Panel) GameID() string { return p.gameID }

// Status returns the state of the last request.
func (p *Panel) Status() Status { return p.status }

// Err returns the message of the last failure, or "".
func (p *Panel) Err() string { return p.errMsg }

// Reviews returns a copy of the loaded reviews.
func (p *Panel) Reviews() []api.Review {
	return append([]api.Review(nil), p.reviews...)
}

// Find returns the loaded review with id.
func (p *Panel) Find(id string) (api.Review, bool) {
	for _, r := range p.reviews {
		if r.ID == id {
			return r, true
		}
	}
	return api.Review{}, false
}

// PendingDelete returns the review awaiting delete confirmation, or "".
func (p *Panel) PendingDelete() string { return p.pendingDelete }

// BeginLoad issues a fetch of the game's reviews.
func (p *Panel) BeginLoad() Request {
	return p.begin()
}

// BeginSave issues a create or update followed by a re-fetch.
func (p *Panel) BeginSave(sub forms.ReviewSubmission) Request {
	req := p.begin()
	sub.Input.GameID = p.gameID
	req.save = &sub
	return req
}

// RequestDelete asks for confirmation before deleting reviewID. No request
// is made until Confirm.
func (p *Panel) RequestDelete(reviewID string) {
	p.pendingDelete = reviewID
}

// CancelDelete drops a pending delete.
func (p *Panel) CancelDelete() {
	p.pendingDelete = ""
}

// Confirm issues the pending delete. It returns false when nothing is
// pending.
func (p *Panel) Confirm() (Request, bool) {
	if p.pendingDelete == "" {
		return Request{}, false
	}
	req := p.begin()
	req.deleteID = p.pendingDelete
	p.pendingDelete = ""
	return req, true
}

func (p *Panel) begin() Request {
	p.seq++
	p.status = StatusLoading
	p.errMsg = ""
	return Request{GameID: p.gameID, Seq: p.seq}
}

// Apply records a result. Results for another game, or for a request that
// has since been superseded, are ignored and Apply returns false. On error
// the previously loaded reviews are kept.
func (p *Panel) Apply(res Result) bool {
	if res.GameID != p.gameID || res.Seq != p.seq {
		return false
	}
	if res.Err != nil {
		p.status = StatusError
		p.errMsg = api.Message(res.Err, res.fallback)
		log.Warn().Err(res.Err).Str("game", p.gameID).Msg("reviews request failed")
		return true
	}
	p.status = StatusSuccess
	p.errMsg = ""
	p.reviews = append([]api.Review(nil), res.Reviews...)
	return true
}

// Load fetches the reviews and applies the result.
func (p *Panel) Load(ctx context.Context, backend Backend) error {
	res := p.BeginLoad().Run(ctx, backend)
	p.Apply(res)
	return res.Err
}

// Save creates or updates a review and re-fetches. It reports whether the
// mutation took effect.
func (p *Panel) Save(ctx context.Context, backend Backend, sub forms.ReviewSubmission) (bool, error) {
	res := p.BeginSave(sub).Run(ctx, backend)
	p.Apply(res)
	return res.Changed, res.Err
}

// Delete runs the confirmed delete and re-fetches. Without a prior
// RequestDelete it does nothing.
func (p *Panel) Delete(ctx context.Context, backend Backend) (bool, error) {
	req, ok := p.Confirm()
	if !ok {
		return false, nil
	}
	res := req.Run(ctx, backend)
	p.Apply(res)
	return res.Changed, res.Err
}
