package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// csvHeader is the movie_metadata.csv header.
const csvHeader = "color,director_name,num_critic_for_reviews,duration,director_facebook_likes," +
	"actor_3_facebook_likes,actor_2_name,actor_1_facebook_likes,gross,genres,actor_1_name," +
	"movie_title,num_voted_users,cast_total_facebook_likes,actor_3_name,facenumber_in_poster," +
	"plot_keywords,movie_imdb_link,num_user_for_reviews,language,country,content_rating,budget," +
	"title_year,actor_2_facebook_likes,imdb_score,aspect_ratio,movie_facebook_likes"

// csvRow builds a 28-column row with the fields the loader reads.
func csvRow(director, duration, actor2, genres, actor1, title, actor3, year, rating string) string {
	cols := make([]string, 28)
	cols[colDirector] = director
	cols[colDuration] = duration
	cols[colActor2] = actor2
	cols[colGenres] = genres
	cols[colActor1] = actor1
	cols[colTitle] = title
	cols[colActor3] = actor3
	cols[colYear] = year
	cols[colRating] = rating
	for i, c := range cols {
		if strings.ContainsAny(c, ",\"") {
			cols[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
		}
	}
	return strings.Join(cols, ",")
}

func TestParseRow(t *testing.T) {
	row := make([]string, 28)
	row[colDirector] = "James Cameron"
	row[colDuration] = "178"
	row[colActor1] = "CCH Pounder"
	row[colActor2] = "Joel David Moore"
	row[colActor3] = "W"
	row[colGenres] = "Action|Adventure|X|Fantasy"
	row[colTitle] = "Avatar  "
	row[colYear] = "2009"
	row[colRating] = "7.9"

	m, reason := parseRow(row)
	require.Empty(t, reason)
	assert.Equal(t, "Avatar ", m.Title)
	assert.Equal(t, "James Cameron", m.Director)
	assert.Equal(t, 178, m.Duration)
	assert.Equal(t, 2009, m.Year)
	assert.InDelta(t, 7.9, m.Rating, 1e-9)
	assert.Equal(t, []string{"CCH Pounder", "Joel David Moore"}, m.Actors)
	assert.Equal(t, []string{"Action", "Adventure", "Fantasy"}, m.Genres)
}

func TestParseRow_Rejects(t *testing.T) {
	_, reason := parseRow(make([]string, 25))
	assert.NotEmpty(t, reason)

	_, reason = parseRow(make([]string, 26))
	assert.Equal(t, "empty title", reason)
}

func TestToNumbers(t *testing.T) {
	for in, want := range map[string]int{
		"":      0,
		"2009":  2009,
		" 178":  178,
		"12.5":  12,
		"-3x":   -3,
		"abc":   0,
		"+":     0,
		"42min": 42,
	} {
		assert.Equal(t, want, toInt(in), "toInt(%q)", in)
	}
	for in, want := range map[string]float64{
		"":     0,
		"7.9":  7.9,
		"8":    8,
		".":    0,
		"6.5/": 6.5,
		"1e1":  10,
		"2e":   2,
		"nan":  0,
	} {
		assert.InDelta(t, want, toFloat(in), 1e-9, "toFloat(%q)", in)
	}
}
