package recommendation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/moodmate/internal/domain/mood"
)

func foodNames(items []Food) []string {
	out := make([]string, 0, len(items))
	for _, f := range items {
		out = append(out, f.Name)
	}
	return out
}

func musicTitles(items []Music) []string {
	out := make([]string, 0, len(items))
	for _, m := range items {
		out = append(out, m.Title)
	}
	return out
}

func TestCatalogForSad(t *testing.T) {
	bundle := DefaultCatalog().For(mood.Sad)

	require.Equal(t, mood.Sad, bundle.Mood)
	require.Equal(t, SourceStatic, bundle.Source)
	require.Equal(t, []string{"Masala Chai", "Pakoras", "Khichdi"}, foodNames(bundle.Foods))
	require.Equal(t, []string{"Tum Hi Ho", "Agar Tum Saath Ho", "Channa Mereya"}, musicTitles(bundle.Music))
}

func TestCatalogForHappyMusic(t *testing.T) {
	bundle := DefaultCatalog().For(mood.Happy)
	require.Equal(t, []string{"Butta Bomma", "London Thumakda", "Kesariya"}, musicTitles(bundle.Music))
}

func TestCatalogBundlesRespectFilterInvariant(t *testing.T) {
	catalog := DefaultCatalog()
	for _, m := range mood.All() {
		bundle := catalog.For(m)
		require.LessOrEqual(t, len(bundle.Foods), DefaultLimit)
		require.LessOrEqual(t, len(bundle.Music), DefaultLimit)
		require.LessOrEqual(t, len(bundle.Stays), DefaultLimit)
		for _, f := range bundle.Foods {
			require.True(t, f.Mood.Has(m), "%s tagged %v", f.Name, f.Mood)
		}
		for _, s := range bundle.Stays {
			require.True(t, s.Mood.Has(m), "%s tagged %v", s.Name, s.Mood)
		}
	}
}

func TestCatalogWithFewerMatches(t *testing.T) {
	catalog := &Catalog{
		Foods: []Food{{Name: "Only", Mood: Tags{mood.Cozy}}},
	}
	bundle := catalog.For(mood.Cozy)
	require.Len(t, bundle.Foods, 1)
	require.Empty(t, bundle.Music)
	require.Empty(t, bundle.Stays)

	require.Empty(t, catalog.For(mood.Happy).Foods)
}

func TestCatalogHandsOutCopies(t *testing.T) {
	catalog := DefaultCatalog()
	bundle := catalog.For(mood.Sad)
	bundle.Foods[0].Name = "mutated"
	bundle.Foods[0].Mood[0] = mood.Happy

	again := catalog.For(mood.Sad)
	require.Equal(t, "Masala Chai", again.Foods[0].Name)
	require.Equal(t, mood.Sad, again.Foods[0].Mood[0])
}

func TestTagsDecodeSingleString(t *testing.T) {
	var f Food
	require.NoError(t, jsonUnmarshal(`{"name":"Idli","mood":"calm"}`, &f))
	require.Equal(t, Tags{mood.Calm}, f.Mood)

	require.NoError(t, jsonUnmarshal(`{"name":"Dosa","mood":["happy","cozy"]}`, &f))
	require.Equal(t, Tags{mood.Happy, mood.Cozy}, f.Mood)
}
