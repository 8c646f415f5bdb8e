package models

// TopN is the size of the short-list returned next to the full results.
const TopN = 5

// SearchResponse is the shape every search and nearby call answers with.
type SearchResponse struct {
	Found   bool          `json:"found"`
	Top5    []PlaceRecord `json:"top5"`
	Results []PlaceRecord `json:"results"`
	Error   string        `json:"error,omitempty"`
}

// NewSearchResponse wraps ranked results.
func NewSearchResponse(results []PlaceRecord) SearchResponse {
	if results == nil {
		results = []PlaceRecord{}
	}
	n := min(TopN, len(results))
	top := make([]PlaceRecord, n)
	copy(top, results[:n])
	return SearchResponse{
		Found:   len(results) > 0,
		Top5:    top,
		Results: results,
	}
}

// NotFound is the empty response.
func NotFound() SearchResponse {
	return NewSearchResponse(nil)
}

// Failed is the empty response carrying an error message.
func Failed(msg string) SearchResponse {
	resp := NotFound()
	resp.Error = msg
	return resp
}

// Category is a nearby-search category label.
type Category string

const (
	CategoryCafe        Category = "cafe"
	CategoryFood        Category = "food"
	CategoryPharmacy    Category = "pharmacy"
	CategorySupermarket Category = "supermarket"
)

// NearbyRequest asks for places of one category around a point.
type NearbyRequest struct {
	Latitude     float64
	Longitude    float64
	Category     Category
	RadiusMeters int
}
