package continuity

// Keyword vocabularies for the classification rules. Exported so callers can
// substitute their own via ClassifierConfig; the defaults mirror the
// production vocabularies.

// DefaultLocations are the recognized location keywords. Matching is a
// lowercase substring test, so multi-word entries work as-is.
var DefaultLocations = []string{
	"garden", "kitchen", "bedroom", "bathroom", "living room", "office",
	"street", "park", "beach", "mountain", "forest", "city",
	"cafe", "restaurant", "bar", "shop", "store", "mall",
	"studio", "stage", "gym", "pool", "spa",
}

// DefaultTimeOfDay is the ordered time-of-day vocabulary. Ordinal distance
// greater than one between two matched periods is a time jump.
var DefaultTimeOfDay = []string{
	"dawn", "morning", "noon", "afternoon", "evening", "dusk", "night", "midnight",
}

// DefaultCloseShot and DefaultWideShot are the camera-distance vocabularies.
// One description matching close and the other wide is a distance jump,
// regardless of order.
var (
	DefaultCloseShot = []string{"close-up", "macro", "detail", "zoom"}
	DefaultWideShot  = []string{"wide", "landscape", "panorama", "aerial", "establishing"}
)
