package library

import (
	"net/url"
	"strings"
)

// Filters is the library query. The zero value lists everything in the
// default order.
type Filters struct {
	Query      string
	Genre      string
	Platform   string
	Completion Completion
	SortBy     string
}

// Values returns the query parameters for GET /juegos. Only non-empty fields
// are included.
func (f Filters) Values() url.Values {
	values := url.Values{}
	if q := strings.TrimSpace(f.Query); q != "" {
		values.Set("busqueda", q)
	}
	if f.Genre != "" {
		values.Set("genero", f.Genre)
	}
	if f.Platform != "" {
		values.Set("plataforma", f.Platform)
	}
	if f.Completion != CompletionAny {
		values.Set("completado", string(f.Completion))
	}
	if f.SortBy != "" {
		values.Set("ordenarPor", f.SortBy)
	}
	return values
}

// Encode returns the URL-encoded query string.
func (f Filters) Encode() string {
	return f.Values().Encode()
}

// Default returns the filters the library opens with.
func Default() Filters {
	return Filters{SortBy: DefaultSort}
}

// Reset clears every filter and restores the default order.
func (f Filters) Reset() Filters {
	return Default()
}

// Active reports whether any narrowing filter is set. Sort order does not
// count.
func (f Filters) Active() bool {
	return strings.TrimSpace(f.Query) != "" || f.Genre != "" || f.Platform != "" || f.Completion != CompletionAny
}

// WithQuery returns f with the free-text search replaced.
func (f Filters) WithQuery(q string) Filters {
	f.Query = q
	return f
}

// NextGenre cycles the genre filter through "all" and each genre.
func (f Filters) NextGenre() Filters {
	f.Genre = CycleValue(Genres, f.Genre, true)
	return f
}

// NextPlatform cycles the platform filter through "all" and each platform.
func (f Filters) NextPlatform() Filters {
	f.Platform = CycleValue(Platforms, f.Platform, true)
	return f
}

// NextCompletion cycles the completion filter.
func (f Filters) NextCompletion() Filters {
	f.Completion = f.Completion.Next()
	return f
}

// NextSort cycles the sort key.
func (f Filters) NextSort() Filters {
	current := f.SortBy
	if current == "" {
		current = DefaultSort
	}
	f.SortBy = CycleValue(SortKeys, current, false)
	return f
}
