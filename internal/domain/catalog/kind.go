package catalog

// Kind is a searchable entity collection.
type Kind string

// Entity kinds, listed in top-result precedence order.
const (
	KindAlbum  Kind = "album"
	KindSong   Kind = "song"
	KindArtist Kind = "artist"
)

// Kinds returns every kind in precedence order (album > song > artist).
func Kinds() []Kind {
	return []Kind{KindAlbum, KindSong, KindArtist}
}

// Collection returns the backend collection name for the kind.
func (k Kind) Collection() string {
	switch k {
	case KindAlbum:
		return "Album"
	case KindSong:
		return "Song"
	case KindArtist:
		return "Artist"
	default:
		return ""
	}
}
