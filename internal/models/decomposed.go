package models

// Attribute is one of the fixed, enumerated keys a DecomposedFileName may
// carry. Any attribute may be absent.
type Attribute string

const (
	AttrAnimeTitle      Attribute = "anime_title"
	AttrEpisodeNumber   Attribute = "episode_number"
	AttrAnimeYear       Attribute = "anime_year"
	AttrAnimeSeason     Attribute = "anime_season"
	AttrAnimeType       Attribute = "anime_type"
	AttrVideoTerm       Attribute = "video_term"
	AttrVideoResolution Attribute = "video_resolution"
	AttrAudioTerm       Attribute = "audio_term"
	AttrFileChecksum    Attribute = "file_checksum"
	AttrFileName        Attribute = "file_name"
	AttrReleaseGroup    Attribute = "release_group"
	AttrSource          Attribute = "source"
)

// DecomposedFileName maps each recognized attribute to an ordered list of
// string values. A single-valued attribute is a list of length one.
type DecomposedFileName map[Attribute][]string

// Set stores a single value for attr, replacing any existing value. An
// empty value is ignored and leaves any existing value in place.
func (d DecomposedFileName) Set(attr Attribute, value string) {
	if value == "" {
		return
	}
	d[attr] = []string{value}
}

// Add appends a value to attr's value list.
func (d DecomposedFileName) Add(attr Attribute, value string) {
	if value == "" {
		return
	}
	d[attr] = append(d[attr], value)
}

// Get returns the first value stored for attr, and whether attr is present.
func (d DecomposedFileName) Get(attr Attribute) (string, bool) {
	values, ok := d[attr]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// GetAll returns every value stored for attr.
func (d DecomposedFileName) GetAll(attr Attribute) []string {
	return d[attr]
}

// Has reports whether attr carries at least one value.
func (d DecomposedFileName) Has(attr Attribute) bool {
	values, ok := d[attr]
	return ok && len(values) > 0
}

// NewDecomposedFileName returns an empty, ready-to-use DecomposedFileName.
func NewDecomposedFileName() DecomposedFileName {
	return make(DecomposedFileName)
}
