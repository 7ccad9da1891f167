package recommendation

import (
	"net/url"
	"slices"

	"github.com/yanqian/moodmate/internal/domain/mood"
)

// DefaultLimit caps each list of a static bundle.
const DefaultLimit = 3

// Catalog holds the static suggestion tables. Tables are read only after
// construction; For hands out copies.
type Catalog struct {
	Foods []Food
	Music []Music
	Stays []Stay
	Limit int
}

// For filters every table down to entries tagged with m, in table order,
// truncated to the catalog limit.
func (c *Catalog) For(m mood.Mood) Bundle {
	limit := c.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Bundle{
		Mood:   m,
		Foods:  pick(c.Foods, m, limit),
		Music:  pick(c.Music, m, limit),
		Stays:  pick(c.Stays, m, limit),
		Source: SourceStatic,
	}
}

type tagged[T any] interface {
	moodTags() Tags
	withTags(Tags) T
}

func pick[T tagged[T]](items []T, m mood.Mood, limit int) []T {
	out := make([]T, 0, limit)
	for _, it := range items {
		if len(out) == limit {
			break
		}
		if it.moodTags().Has(m) {
			out = append(out, it.withTags(slices.Clone(it.moodTags())))
		}
	}
	return out
}

func (f Food) moodTags() Tags { return f.Mood }
func (f Food) withTags(t Tags) Food { f.Mood = t; return f }
func (m Music) moodTags() Tags { return m.Mood }
func (m Music) withTags(t Tags) Music { m.Mood = t; return m }
func (s Stay) moodTags() Tags { return s.Mood }
func (s Stay) withTags(t Tags) Stay { s.Mood = t; return s }

func tags(moods ...mood.Mood) Tags { return Tags(moods) }

func spotifySearch(title, artist string) string {
	return "https://open.spotify.com/search/" + url.PathEscape(title+" "+artist)
}

// DefaultCatalog builds the curated tables served when AI suggestions are
// unavailable.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Limit: DefaultLimit,
		Foods: []Food{
			{ID: "food-masala-chai", Name: "Masala Chai", Description: "Spiced milk tea simmered with ginger and cardamom", Type: "Beverage", Image: "☕", Mood: tags(mood.Sad, mood.Cozy, mood.Calm), Why: "A warm cup that slows the day down"},
			{ID: "food-mango-lassi", Name: "Mango Lassi", Description: "Chilled yoghurt shake with ripe Alphonso mango", Type: "Beverage", Image: "🥭", Mood: tags(mood.Happy), Why: "Bright and cooling for sunny hours"},
			{ID: "food-pakoras", Name: "Pakoras", Description: "Crisp gram flour fritters with mint chutney", Type: "Snack", Image: "🧆", Mood: tags(mood.Sad, mood.Cozy), Why: "The classic rainy day snack"},
			{ID: "food-pani-puri", Name: "Pani Puri", Description: "Hollow puris filled with tangy tamarind water", Type: "Street Food", Image: "🥟", Mood: tags(mood.Happy), Why: "Playful bites best shared outdoors"},
			{ID: "food-khichdi", Name: "Khichdi", Description: "Soft rice and lentils tempered with ghee and cumin", Type: "Comfort Food", Image: "🍚", Mood: tags(mood.Sad, mood.Calm), Why: "Gentle and grounding when spirits are low"},
			{ID: "food-fruit-chaat", Name: "Fresh Fruit Chaat", Description: "Seasonal fruit tossed with chaat masala and lime", Type: "Healthy", Image: "🥗", Mood: tags(mood.Happy), Why: "Light and zesty for clear skies"},
			{ID: "food-filter-coffee", Name: "Filter Coffee", Description: "South Indian decoction coffee frothed with hot milk", Type: "Beverage", Image: "☕", Mood: tags(mood.Calm), Why: "A steady ritual for grey afternoons"},
			{ID: "food-rasam-rice", Name: "Rasam Rice", Description: "Peppery tomato rasam poured over steamed rice", Type: "Comfort Food", Image: "🍲", Mood: tags(mood.Cozy, mood.Calm), Why: "Warming spice against the chill"},
			{ID: "food-gulab-jamun", Name: "Gulab Jamun", Description: "Milk dumplings soaked in rose cardamom syrup", Type: "Dessert", Image: "🍮", Mood: tags(mood.Happy, mood.Cozy), Why: "A sweet treat for any celebration"},
			{ID: "food-tomato-soup", Name: "Tomato Soup", Description: "Velvety tomato soup with a hint of pepper", Type: "Soup", Image: "🍅", Mood: tags(mood.Sad), Why: "Simple warmth in a bowl"},
		},
		Music: []Music{
			{ID: "music-butta-bomma", Title: "Butta Bomma", Artist: "Armaan Malik", Genre: "Telugu Pop", Image: "🎵", Mood: tags(mood.Happy), SpotifyURL: spotifySearch("Butta Bomma", "Armaan Malik")},
			{ID: "music-tum-hi-ho", Title: "Tum Hi Ho", Artist: "Arijit Singh", Genre: "Bollywood", Image: "🎵", Mood: tags(mood.Sad), SpotifyURL: spotifySearch("Tum Hi Ho", "Arijit Singh")},
			{ID: "music-kun-faya-kun", Title: "Kun Faya Kun", Artist: "A.R. Rahman", Genre: "Sufi", Image: "🎵", Mood: tags(mood.Calm), SpotifyURL: spotifySearch("Kun Faya Kun", "A.R. Rahman")},
			{ID: "music-london-thumakda", Title: "London Thumakda", Artist: "Labh Janjua", Genre: "Bollywood", Image: "🎵", Mood: tags(mood.Happy), SpotifyURL: spotifySearch("London Thumakda", "Labh Janjua")},
			{ID: "music-agar-tum-saath-ho", Title: "Agar Tum Saath Ho", Artist: "Alka Yagnik, Arijit Singh", Genre: "Bollywood", Image: "🎵", Mood: tags(mood.Sad), SpotifyURL: spotifySearch("Agar Tum Saath Ho", "Alka Yagnik")},
			{ID: "music-raag-yaman", Title: "Raag Yaman", Artist: "Hariprasad Chaurasia", Genre: "Classical", Image: "🎵", Mood: tags(mood.Calm, mood.Cozy), SpotifyURL: spotifySearch("Raag Yaman", "Hariprasad Chaurasia")},
			{ID: "music-kesariya", Title: "Kesariya", Artist: "Arijit Singh", Genre: "Bollywood", Image: "🎵", Mood: tags(mood.Cozy, mood.Happy), SpotifyURL: spotifySearch("Kesariya", "Arijit Singh")},
			{ID: "music-channa-mereya", Title: "Channa Mereya", Artist: "Arijit Singh", Genre: "Bollywood", Image: "🎵", Mood: tags(mood.Sad), SpotifyURL: spotifySearch("Channa Mereya", "Arijit Singh")},
			{ID: "music-samajavaragamana", Title: "Samajavaragamana", Artist: "Sid Sriram", Genre: "Telugu", Image: "🎵", Mood: tags(mood.Cozy, mood.Calm), SpotifyURL: spotifySearch("Samajavaragamana", "Sid Sriram")},
			{ID: "music-naatu-naatu", Title: "Naatu Naatu", Artist: "Rahul Sipligunj, Kaala Bhairava", Genre: "Telugu", Image: "🎵", Mood: tags(mood.Happy), SpotifyURL: spotifySearch("Naatu Naatu", "Rahul Sipligunj")},
		},
		Stays: []Stay{
			{ID: "stay-goa-beach-shack", Name: "Goa Beach Shack", Description: "Sea facing huts on Palolem beach", Type: "Beach", Image: "🏖️", Mood: tags(mood.Happy), Why: "Sun, sand and sunsets"},
			{ID: "stay-munnar-bungalow", Name: "Munnar Tea Estate Bungalow", Description: "Colonial bungalow among misty tea gardens", Type: "Homestay", Image: "🍃", Mood: tags(mood.Calm, mood.Cozy), Why: "Quiet hills wrapped in mist"},
			{ID: "stay-rishikesh-ashram", Name: "Rishikesh Riverside Ashram", Description: "Yoga retreat on the banks of the Ganga", Type: "Retreat", Image: "🧘", Mood: tags(mood.Calm, mood.Sad), Why: "Space to rest and reset"},
			{ID: "stay-manali-cabin", Name: "Manali Log Cabin", Description: "Pine wood cabin with a fireplace and mountain views", Type: "Cabin", Image: "🏔️", Mood: tags(mood.Cozy), Why: "Fireside evenings in the snow"},
			{ID: "stay-udaipur-heritage", Name: "Udaipur Lake Palace Heritage Hotel", Description: "Royal suites overlooking Lake Pichola", Type: "Heritage", Image: "🏰", Mood: tags(mood.Happy, mood.Calm), Why: "Lakeside grandeur for good days"},
			{ID: "stay-coorg-homestay", Name: "Coorg Coffee Plantation Homestay", Description: "Family run homestay inside a coffee estate", Type: "Homestay", Image: "☕", Mood: tags(mood.Sad, mood.Cozy), Why: "Home cooked meals and rain on the roof"},
			{ID: "stay-jaipur-haveli", Name: "Jaipur Haveli", Description: "Restored haveli with painted courtyards", Type: "Heritage", Image: "🕌", Mood: tags(mood.Happy), Why: "Colour and festivity in the Pink City"},
		},
	}
}
