package models

// SortBy is the site's `pSortuj` query key for ordering search results.
type SortBy int

const (
	// SortByFitness orders by relevance ("traf" — trafność).
	SortByFitness SortBy = iota
	// SortByDateDescending orders by publication date, newest first.
	SortByDateDescending
	// SortByPopularity orders by download count ("pobrn" — pobrania).
	SortByPopularity
)

// String returns the literal site query value for s.
func (s SortBy) String() string {
	switch s {
	case SortByFitness:
		return "traf"
	case SortByDateDescending:
		return "datad"
	case SortByPopularity:
		return "pobrn"
	default:
		return "traf"
	}
}

// ParseSortBy maps a literal site query value back to a SortBy.
func ParseSortBy(s string) (SortBy, bool) {
	switch s {
	case "traf":
		return SortByFitness, true
	case "datad":
		return SortByDateDescending, true
	case "pobrn":
		return SortByPopularity, true
	default:
		return SortByFitness, false
	}
}

// TitleType is the site's `pTitle` query key selecting which title field to
// search against.
type TitleType int

const (
	// TitleTypeOriginal searches the original (Japanese/romanized) title.
	TitleTypeOriginal TitleType = iota
	// TitleTypeEnglish searches the English title.
	TitleTypeEnglish
	// TitleTypePolish searches the Polish title.
	TitleTypePolish
	// TitleTypeJapanese searches the Japanese title.
	TitleTypeJapanese
)

// String returns the literal site query value for t.
func (t TitleType) String() string {
	switch t {
	case TitleTypeOriginal:
		return "org"
	case TitleTypeEnglish:
		return "en"
	case TitleTypePolish:
		return "pl"
	case TitleTypeJapanese:
		return "jp"
	default:
		return "org"
	}
}

// ParseTitleType maps a literal site query value back to a TitleType.
func ParseTitleType(s string) (TitleType, bool) {
	switch s {
	case "org":
		return TitleTypeOriginal, true
	case "en":
		return TitleTypeEnglish, true
	case "pl":
		return TitleTypePolish, true
	case "jp":
		return TitleTypeJapanese, true
	default:
		return TitleTypeOriginal, false
	}
}
