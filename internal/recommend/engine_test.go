package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roamify/internal/catalog"
	"roamify/internal/models"
	"roamify/internal/ratings"
)

func fixture() (*catalog.Catalog, *ratings.Table) {
	c := catalog.New([]models.Attraction{
		{Name: "Eiffel Tower", State: "Paris", City: "Paris", OpeningHours: "09:00-23:45", Description: "Tower", Rating: 4.8},
		{Name: "Louvre", State: "Paris", City: "Paris", OpeningHours: "09:00-18:00", Description: "Museum", Rating: 4.7},
		{Name: "Colosseum", State: "Lazio", City: "Rome", Rating: 4.6},
		{Name: "Pantheon", State: "Lazio", City: "Rome", Rating: 4.7},
		{Name: "Trevi Fountain", State: "Lazio", City: "Rome", Rating: 4.8},
		{Name: "Vatican Museums", State: "Lazio", City: "Rome", Rating: 4.6},
	})
	t := ratings.NewTable("Eiffel Tower", "Louvre", "Colosseum", "Pantheon", "Trevi Fountain")
	t.Set("alice", "Eiffel Tower", 5)
	t.Set("alice", "Louvre", 3)
	t.Set("alice", "Colosseum", 2)
	t.Set("alice", "Pantheon", 4.5)
	return c, t
}

func names(recs []models.Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Name)
	}
	return out
}

func TestRecommend_ShortRegion(t *testing.T) {
	c, table := fixture()
	res, err := Recommend(c, table, "Paris", 5, "alice")
	require.NoError(t, err)

	assert.True(t, res.UserFound)
	assert.Equal(t, []models.Recommendation{
		{Name: "Eiffel Tower", City: "Paris", OpeningHours: "09:00-23:45", Description: "Tower"},
		{Name: "Louvre", City: "Paris", OpeningHours: "09:00-18:00", Description: "Museum"},
	}, res.Recommendations)
	assert.Equal(t, "Only 2 attractions are available in Paris for alice.", res.Message)
}

func TestRecommend_TopN(t *testing.T) {
	tests := []struct {
		name        string
		n           int
		want        []string
		wantMessage string
	}{
		{"top one", 1, []string{"Pantheon"}, ""},
		{"unrated and rowless rank last in catalog order", 4,
			[]string{"Pantheon", "Colosseum", "Trevi Fountain", "Vatican Museums"}, ""},
		{"more than available", 20,
			[]string{"Pantheon", "Colosseum", "Trevi Fountain", "Vatican Museums"},
			"Only 4 attractions are available in Lazio for alice."},
	}
	c, table := fixture()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Recommend(c, table, "Lazio", tt.n, "alice")
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(res.Recommendations))
			assert.Equal(t, tt.wantMessage, res.Message)
			assert.LessOrEqual(t, len(res.Recommendations), tt.n)
		})
	}
}

func TestRecommend_DuplicateCatalogNames(t *testing.T) {
	c := catalog.New([]models.Attraction{
		{Name: "Eiffel Tower", State: "Paris", City: "Paris"},
		{Name: "Louvre", State: "Paris", City: "Paris"},
		{Name: "Eiffel Tower", State: "Paris", City: "Paris (copy)"},
	})
	table := ratings.NewTable("Eiffel Tower", "Louvre")
	table.Set("alice", "Eiffel Tower", 5)
	table.Set("alice", "Louvre", 3)

	res, err := Recommend(c, table, "Paris", 3, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Eiffel Tower", "Louvre"}, names(res.Recommendations))
	assert.Equal(t, "Paris", res.Recommendations[0].City)
	assert.Equal(t, "Only 2 attractions are available in Paris for alice.", res.Message)
}

func TestRecommend_UnknownUser(t *testing.T) {
	c, table := fixture()
	res, err := Recommend(c, table, "Paris", 3, "mallory")
	require.NoError(t, err)
	assert.False(t, res.UserFound)
	assert.Empty(t, res.Recommendations)
	assert.Equal(t, "User mallory not found in the database. Please add user first.", res.Message)
}

func TestRecommend_UnknownRegion(t *testing.T) {
	c, table := fixture()
	res, err := Recommend(c, table, "Atlantis", 3, "alice")
	require.NoError(t, err)
	assert.Empty(t, res.Recommendations)
	assert.Equal(t, "Only 0 attractions are available in Atlantis for alice.", res.Message)
}

func TestRecommend_InvalidCount(t *testing.T) {
	c, table := fixture()
	for _, n := range []int{0, -1, 21} {
		_, err := Recommend(c, table, "Paris", n, "alice")
		require.Error(t, err)
		assert.True(t, IsInvalidCount(err), "n=%d", n)
	}
}

func TestHeading(t *testing.T) {
	assert.Equal(t, "Top 3 attractions in Lazio for bob:", Heading(3, "Lazio", "bob"))
}
