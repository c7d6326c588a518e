package elastic

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SocialShift/Knowledge-Backend/internal/models"
)

func TestSearchResponseResults(t *testing.T) {
	id := uuid.New()
	raw := `{"hits":{"hits":[
		{"_id":"` + id.String() + `","_score":2.5,"_source":{"kind":"timeline","title":"Harlem Renaissance"}},
		{"_id":"not-a-uuid","_score":1,"_source":{"kind":"story","title":"skip me"}}
	]}}`

	var res searchResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &res))

	hits := res.results()
	require.Len(t, hits, 1)
	assert.Equal(t, models.SearchHit{ID: id, Kind: models.SearchKindTimeline, Title: "Harlem Renaissance", Score: 2.5}, hits[0])
}

func TestSearchQueryBoostsTitle(t *testing.T) {
	q := searchQuery("civil rights", 5)
	assert.Equal(t, 5, q["size"])

	mm := q["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "civil rights", mm["query"])
	assert.Contains(t, mm["fields"], "title^3")
	assert.Equal(t, "AUTO", mm["fuzziness"])
}

func TestDocumentBodyNeverNullCategories(t *testing.T) {
	body := documentBody(models.SearchDocument{ID: uuid.New(), Kind: models.SearchKindStory, Title: "t"})
	assert.Equal(t, []string{}, body["categories"])
}
