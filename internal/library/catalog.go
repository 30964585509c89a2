package library

// Genres lists the genre values the backend accepts, in display order.
var Genres = []string{"Acción", "Aventura", "RPG", "Estrategia", "Simulación", "Deportes"}

// Platforms lists the platform values the backend accepts, in display order.
var Platforms = []string{"PC", "PlayStation", "Xbox", "Nintendo Switch", "Móvil"}

// Difficulties lists the review difficulty values.
var Difficulties = []string{"Fácil", "Normal", "Difícil"}

const (
	DefaultGenre      = "RPG"
	DefaultPlatform   = "PC"
	DefaultDifficulty = "Normal"
)

// Sort keys understood by the ordenarPor query parameter.
const (
	SortNewest  = "fechaCreacion"
	SortTitle   = "titulo"
	SortYear    = "añoLanzamiento"
	SortRating  = "promedioPuntuacion"
	DefaultSort = SortNewest
)

// SortKeys lists the sort keys in cycle order.
var SortKeys = []string{SortNewest, SortTitle, SortYear, SortRating}

var sortLabels = map[string]string{
	SortNewest: "Recientes",
	SortTitle:  "Título",
	SortYear:   "Año",
	SortRating: "Puntuación",
}

// SortLabel returns the display label for a sort key.
func SortLabel(key string) string {
	if label, ok := sortLabels[key]; ok {
		return label
	}
	return sortLabels[DefaultSort]
}

// Completion is the tri-state completion filter.
type Completion string

const (
	CompletionAny     Completion = ""
	CompletionDone    Completion = "true"
	CompletionPending Completion = "false"
)

// Label returns the display label for c.
func (c Completion) Label() string {
	switch c {
	case CompletionDone:
		return "Completados"
	case CompletionPending:
		return "Pendientes"
	default:
		return "Todos"
	}
}

// Next cycles any → completed → pending → any.
func (c Completion) Next() Completion {
	switch c {
	case CompletionAny:
		return CompletionDone
	case CompletionDone:
		return CompletionPending
	default:
		return CompletionAny
	}
}

// IsGenre reports whether v is an accepted genre.
func IsGenre(v string) bool { return contains(Genres, v) }

// IsPlatform reports whether v is an accepted platform.
func IsPlatform(v string) bool { return contains(Platforms, v) }

// IsDifficulty reports whether v is an accepted review difficulty.
func IsDifficulty(v string) bool { return contains(Difficulties, v) }

// CycleValue returns the value after current in values, treating "" as a
// slot before the first value when withEmpty is set. Unknown values restart
// the cycle.
func CycleValue(values []string, current string, withEmpty bool) string {
	if len(values) == 0 {
		return ""
	}
	idx := indexOf(values, current)
	switch {
	case idx < 0 && withEmpty && current != "":
		return ""
	case idx < 0:
		return values[0]
	case idx == len(values)-1 && withEmpty:
		return ""
	default:
		return values[(idx+1)%len(values)]
	}
}

func contains(values []string, v string) bool {
	return indexOf(values, v) >= 0
}

func indexOf(values []string, v string) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return -1
}
