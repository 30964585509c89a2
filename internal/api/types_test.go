package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_UnmarshalVariants(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Ref
	}{
		{"string", `"g1"`, "g1"},
		{"populated", `{"_id":"g2","titulo":"Hades"}`, "g2"},
		{"null", `null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Ref
			require.NoError(t, json.Unmarshal([]byte(tt.in), &r))
			assert.Equal(t, tt.want, r)
		})
	}
}

func TestGame_DecodesBackendFieldNames(t *testing.T) {
	payload := `{
		"_id": "g1", "titulo": "Hollow Knight", "genero": "Aventura", "plataforma": "Nintendo Switch",
		"añoLanzamiento": 2017, "desarrollador": "Team Cherry", "completado": true,
		"logrosObtenidos": 40, "logrosTotales": 63, "totalHorasJugadas": 52.5,
		"promedioPuntuacion": 4.5, "fechaCreacion": "2025-01-10T12:30:00.000Z"
	}`
	var g Game
	require.NoError(t, json.Unmarshal([]byte(payload), &g))
	assert.Equal(t, 2017, g.ReleaseYear)
	assert.Equal(t, 40, g.AchievementsEarned)
	assert.Equal(t, 63, g.AchievementsTotal)
	assert.InDelta(t, 52.5, g.HoursPlayed, 0.001)
	assert.Equal(t, time.Date(2025, 1, 10, 12, 30, 0, 0, time.UTC), g.ParsedCreatedAt())

	in := g.Input()
	assert.Equal(t, "Team Cherry", in.Developer)
	assert.True(t, in.Completed)
}

func TestGame_PlainDescription(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  Sin etiquetas  ", "Sin etiquetas"},
		{"<p>Primer párrafo</p><p>Segundo<br/>línea</p>", "Primer párrafo\nSegundo\nlínea"},
		{"Fuego &amp; <b>sangre</b>", "Fuego & sangre"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Game{Description: tt.in}.PlainDescription(), "input %q", tt.in)
	}
}

func TestProfileResponse_Merge(t *testing.T) {
	base := User{ID: "u1", Email: "ana@example.com", Nickname: "ana", Phrase: "hola", ProfilePicURL: "/a.png"}

	nick := "ana_pro"
	got := ProfileResponse{Nickname: &nick}.Merge(base)
	assert.Equal(t, "ana_pro", got.Nickname)
	assert.Equal(t, "hola", got.Phrase)
	assert.Equal(t, "ana@example.com", got.Email)

	got = ProfileResponse{User: &User{Nickname: "ana2", Phrase: "gg", ProfilePicURL: "/b.png"}}.Merge(base)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "ana2", got.Nickname)
	assert.Equal(t, "gg", got.Phrase)
	assert.Equal(t, "/b.png", got.ProfilePicURL)

	assert.Equal(t, base, ProfileResponse{}.Merge(base))
}

func TestSearchResult_ReleaseYear(t *testing.T) {
	assert.Equal(t, 2007, SearchResult{Released: "2007-09-25"}.ReleaseYear())
	assert.Equal(t, 0, SearchResult{Released: ""}.ReleaseYear())
	assert.Equal(t, 0, SearchResult{Released: "TBA"}.ReleaseYear())
}
