package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Ref is an object id that the backend may send either as a bare string or
// as a populated document carrying an _id field.
type Ref string

// UnmarshalJSON accepts "abc", {"_id":"abc"} and null.
func (r *Ref) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = ""
		return nil
	}
	if trimmed[0] == '{' {
		var doc struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return err
		}
		*r = Ref(doc.ID)
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return err
	}
	*r = Ref(s)
	return nil
}

// Game mirrors a library entry returned by /juegos.
type Game struct {
	ID                 string  `json:"_id"`
	Title              string  `json:"titulo"`
	Genre              string  `json:"genero"`
	Platform           string  `json:"plataforma"`
	ReleaseYear        int     `json:"añoLanzamiento"`
	Developer          string  `json:"desarrollador"`
	CoverURL           string  `json:"imagenPortada"`
	Description        string  `json:"descripcion"`
	Completed          bool    `json:"completado"`
	AchievementsEarned int     `json:"logrosObtenidos"`
	AchievementsTotal  int     `json:"logrosTotales"`
	HoursPlayed        float64 `json:"totalHorasJugadas"`
	AverageRating      float64 `json:"promedioPuntuacion"`
	CreatedAt          string  `json:"fechaCreacion"`
}

// Input returns the writable fields of g as a create/update payload.
func (g Game) Input() GameInput {
	return GameInput{
		Title:              g.Title,
		Genre:              g.Genre,
		Platform:           g.Platform,
		ReleaseYear:        g.ReleaseYear,
		Developer:          g.Developer,
		CoverURL:           g.CoverURL,
		Description:        g.Description,
		Completed:          g.Completed,
		AchievementsEarned: g.AchievementsEarned,
		AchievementsTotal:  g.AchievementsTotal,
	}
}

// ParsedCreatedAt returns the creation time or zero when absent or malformed.
func (g Game) ParsedCreatedAt() time.Time {
	return parseTime(g.CreatedAt)
}

// PlainDescription returns the description with any HTML markup removed.
// Metadata imported from the search proxy often carries <p> and <br> tags.
func (g Game) PlainDescription() string {
	return plainText(g.Description)
}

// GameInput is the body of POST /juegos and PUT /juegos/{id}.
type GameInput struct {
	Title              string `json:"titulo"`
	Genre              string `json:"genero"`
	Platform           string `json:"plataforma"`
	ReleaseYear        int    `json:"añoLanzamiento"`
	Developer          string `json:"desarrollador"`
	CoverURL           string `json:"imagenPortada"`
	Description        string `json:"descripcion"`
	Completed          bool   `json:"completado"`
	AchievementsEarned int    `json:"logrosObtenidos"`
	AchievementsTotal  int    `json:"logrosTotales"`
}

// Review mirrors an entry returned by /reseñas.
type Review struct {
	ID             string  `json:"_id"`
	GameID         Ref     `json:"juegoId"`
	Rating         int     `json:"puntuacion"`
	Text           string  `json:"textoReseña"`
	HoursPlayed    float64 `json:"horasJugadas"`
	Difficulty     string  `json:"dificultad"`
	WouldRecommend bool    `json:"recomendaria"`
	CreatedAt      string  `json:"fechaCreacion"`
}

// Input returns the writable fields of r.
func (r Review) Input() ReviewInput {
	return ReviewInput{
		GameID:         string(r.GameID),
		Rating:         r.Rating,
		Text:           r.Text,
		HoursPlayed:    r.HoursPlayed,
		Difficulty:     r.Difficulty,
		WouldRecommend: r.WouldRecommend,
	}
}

// ReviewInput is the body of POST /reseñas and PUT /reseñas/{id}.
type ReviewInput struct {
	GameID         string  `json:"juegoId"`
	Rating         int     `json:"puntuacion"`
	Text           string  `json:"textoReseña"`
	HoursPlayed    float64 `json:"horasJugadas"`
	Difficulty     string  `json:"dificultad"`
	WouldRecommend bool    `json:"recomendaria"`
}

// SearchResult is one candidate returned by the metadata search proxy.
type SearchResult struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Released        string `json:"released"`
	BackgroundImage string `json:"background_image"`
}

// ReleaseYear extracts the year from the YYYY-MM-DD release date, or 0.
func (s SearchResult) ReleaseYear() int {
	released := strings.TrimSpace(s.Released)
	if len(released) < 4 {
		return 0
	}
	year, err := strconv.Atoi(released[:4])
	if err != nil {
		return 0
	}
	return year
}

// User is the public profile attached to a session.
type User struct {
	ID            string `json:"_id"`
	Email         string `json:"email"`
	Nickname      string `json:"nickname"`
	Phrase        string `json:"phrase"`
	ProfilePicURL string `json:"profilePicUrl"`
}

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the body of POST /auth/register.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ProfileInput carries the profile fields to change. Nil fields are omitted.
type ProfileInput struct {
	Nickname      *string `json:"nickname,omitempty"`
	Phrase        *string `json:"phrase,omitempty"`
	ProfilePicURL *string `json:"profilePicUrl,omitempty"`
}

// ProfileResponse is returned by profile and avatar mutations. The backend
// either wraps the updated user or returns the changed fields at top level.
type ProfileResponse struct {
	User          *User   `json:"user"`
	Nickname      *string `json:"nickname"`
	Phrase        *string `json:"phrase"`
	ProfilePicURL *string `json:"profilePicUrl"`
}

// Merge applies the returned profile fields onto u. Identity and email are
// only replaced by a wrapped user that carries them.
func (p ProfileResponse) Merge(u User) User {
	if p.User != nil {
		if p.User.ID != "" {
			u.ID = p.User.ID
		}
		if p.User.Email != "" {
			u.Email = p.User.Email
		}
		if p.User.Nickname != "" {
			u.Nickname = p.User.Nickname
		}
		u.Phrase = p.User.Phrase
		if p.User.ProfilePicURL != "" {
			u.ProfilePicURL = p.User.ProfilePicURL
		}
	}
	if p.Nickname != nil {
		u.Nickname = *p.Nickname
	}
	if p.Phrase != nil {
		u.Phrase = *p.Phrase
	}
	if p.ProfilePicURL != nil {
		u.ProfilePicURL = *p.ProfilePicURL
	}
	return u
}

// Friend is another user's public profile.
type Friend struct {
	ID            string `json:"_id"`
	Nickname      string `json:"nickname"`
	ProfilePicURL string `json:"profilePicUrl"`
	Phrase        string `json:"phrase"`
}

// Activity is one entry of the recent-activity feed.
type Activity struct {
	ID        string `json:"_id"`
	Text      string `json:"text"`
	GameID    Ref    `json:"gameId"`
	CreatedAt string `json:"fechaCreacion"`
}

// HasGame reports whether the entry links to a game.
func (a Activity) HasGame() bool {
	return strings.TrimSpace(string(a.GameID)) != ""
}

// ParsedCreatedAt returns the time of the entry or zero when absent.
func (a Activity) ParsedCreatedAt() time.Time {
	return parseTime(a.CreatedAt)
}

// Bucket is one row of a server-side group-by aggregation.
type Bucket struct {
	Label string `json:"_id"`
	Count int    `json:"count"`
}

// DashboardStats mirrors /stats/dashboard.
type DashboardStats struct {
	TotalGames    int      `json:"totalJuegos"`
	Completed     int      `json:"completados"`
	TotalHours    float64  `json:"totalHoras"`
	AverageRating float64  `json:"promedioPuntuacion"`
	TotalReviews  int      `json:"totalReseñas"`
	ByPlatform    []Bucket `json:"porPlataforma"`
	ByGenre       []Bucket `json:"porGenero"`
}

// errorPayload is the error body shape used by the backend.
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func parseTime(value string) time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t
		}
	}
	return time.Time{}
}

func plainText(markup string) string {
	trimmed := strings.TrimSpace(markup)
	if trimmed == "" || !strings.Contains(trimmed, "<") {
		return trimmed
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(trimmed))
	if err != nil {
		return trimmed
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	lines := strings.Split(doc.Text(), "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
