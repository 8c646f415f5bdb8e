package provider

import (
	"strconv"
	"strings"

	"placefinder-api/internal/models"
)

// searchTagKeys are the tags a free-text query is matched against.
var searchTagKeys = []string{"name", "brand", "operator", "alt_name"}

var elementTypes = []string{"node", "way", "relation"}

// TagFilter selects elements whose Key equals Value, or matches it when Regex is set.
type TagFilter struct {
	Key   string
	Value string
	Regex bool
}

// DefaultCategories maps nearby-search categories to Overpass tag filters.
var DefaultCategories = map[models.Category]TagFilter{
	models.CategoryCafe:        {Key: "amenity", Value: "cafe"},
	models.CategoryFood:        {Key: "amenity", Value: "restaurant|fast_food|cafe", Regex: true},
	models.CategoryPharmacy:    {Key: "amenity", Value: "pharmacy"},
	models.CategorySupermarket: {Key: "shop", Value: "supermarket"},
}

var regexEscaper = strings.NewReplacer(
	`\`, `\\`, `-`, `\-`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
	`(`, `\(`, `)`, `\)`, `*`, `\*`, `+`, `\+`, `?`, `\?`, `.`, `\.`,
	`,`, `\,`, `^`, `\^`, `$`, `\$`, `|`, `\|`, `#`, `\#`,
)

var qlStringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// EscapeRegex makes s match itself literally inside an Overpass regular expression.
func EscapeRegex(s string) string {
	return regexEscaper.Replace(s)
}

func quoteQL(s string) string {
	return `"` + qlStringEscaper.Replace(s) + `"`
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func wrapQuery(timeout int, body string) string {
	var b strings.Builder
	b.WriteString("[out:json][timeout:")
	b.WriteString(strconv.Itoa(timeout))
	b.WriteString("];\n(\n")
	b.WriteString(body)
	b.WriteString(");\nout center tags;\n")
	return b.String()
}

// buildSearchQuery matches pattern case-insensitively against the search tags inside box.
// pattern must already be a valid regular expression.
func buildSearchQuery(pattern string, box models.BoundingBox, timeout int) string {
	area := "(" + formatCoord(box.South) + "," + formatCoord(box.West) + "," +
		formatCoord(box.North) + "," + formatCoord(box.East) + ")"
	value := quoteQL(pattern)

	var b strings.Builder
	for _, key := range searchTagKeys {
		for _, el := range elementTypes {
			b.WriteString("  " + el + "[" + quoteQL(key) + "~" + value + ",i]" + area + ";\n")
		}
	}
	return wrapQuery(timeout, b.String())
}

// buildNearbyQuery selects elements matching filter within radius meters of the point.
func buildNearbyQuery(filter TagFilter, lat, lon float64, radius, timeout int) string {
	around := "(around:" + strconv.Itoa(radius) + "," + formatCoord(lat) + "," + formatCoord(lon) + ")"
	op := "="
	if filter.Regex {
		op = "~"
	}
	selector := "[" + quoteQL(filter.Key) + op + quoteQL(filter.Value) + "]"

	var b strings.Builder
	for _, el := range elementTypes {
		b.WriteString("  " + el + selector + around + ";\n")
	}
	return wrapQuery(timeout, b.String())
}
