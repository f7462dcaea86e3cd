package model

import (
	"time"
)

// ReleaseFormat is the physical or digital carrier of a release.
type ReleaseFormat string

const (
	FormatDigitalAlbum    ReleaseFormat = "Digital Album"
	FormatDigitalSingle   ReleaseFormat = "Digital Single"
	FormatDigitalUSBStick ReleaseFormat = "Digital USB Stick"
	FormatCDSingle        ReleaseFormat = "CD Single"
	FormatCDAlbum         ReleaseFormat = "CD Album"
	FormatVinylAlbum      ReleaseFormat = "Vinyl Album"
	FormatVinylSingle     ReleaseFormat = "Vinyl Single"
	FormatCassette        ReleaseFormat = "Cassette"
)

// ReleaseFormats lists every accepted format.
var ReleaseFormats = []ReleaseFormat{
	FormatDigitalAlbum,
	FormatDigitalSingle,
	FormatDigitalUSBStick,
	FormatCDSingle,
	FormatCDAlbum,
	FormatVinylAlbum,
	FormatVinylSingle,
	FormatCassette,
}

// Valid reports whether f is one of ReleaseFormats. Matching is exact.
func (f ReleaseFormat) Valid() bool {
	for _, known := range ReleaseFormats {
		if f == known {
			return true
		}
	}
	return false
}

// Release is an album or single published by the label.
type Release struct {
	ID              int64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title           string        `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Artist          string        `gorm:"column:artist;type:varchar(255);not null" json:"artist"`
	ReleaseDate     time.Time     `gorm:"column:releaseDate;not null;index" json:"releaseDate"`
	Description     *string       `gorm:"column:description;type:text" json:"description"`
	Format          ReleaseFormat `gorm:"column:format;type:varchar(32);not null" json:"format"`
	ImageURL        *string       `gorm:"column:imageUrl;type:text" json:"imageUrl"`
	AudioPreviewURL *string       `gorm:"column:audioPreviewUrl;type:text" json:"audioPreviewUrl"`
	YoutubeLink     *string       `gorm:"column:youtubeLink;type:text" json:"youtubeLink"`
	SpotifyLink     *string       `gorm:"column:spotifyLink;type:text" json:"spotifyLink"`
	AppleMusicLink  *string       `gorm:"column:appleMusicLink;type:text" json:"appleMusicLink"`
	StoreLink       *string       `gorm:"column:storeLink;type:text" json:"storeLink"`
	CreatedAt       time.Time     `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Release) TableName() string { return "releases" }

// ReleaseWithTracks is a release joined with its tracks in trackNumber order.
type ReleaseWithTracks struct {
	Release
	Tracks []Track `json:"tracks"`
}

// ReleaseInput carries release fields from a write request. Every field is
// optional so the same shape serves creates and partial updates; only the
// non-nil fields are written on update.
type ReleaseInput struct {
	Title           *string        `json:"title"`
	Artist          *string        `json:"artist"`
	ReleaseDate     *string        `json:"releaseDate"`
	Description     *string        `json:"description"`
	Format          *ReleaseFormat `json:"format"`
	ImageURL        *string        `json:"imageUrl"`
	AudioPreviewURL *string        `json:"audioPreviewUrl"`
	YoutubeLink     *string        `json:"youtubeLink"`
	SpotifyLink     *string        `json:"spotifyLink"`
	AppleMusicLink  *string        `json:"appleMusicLink"`
	StoreLink       *string        `json:"storeLink"`
}

// ValidateCreate requires title, artist, releaseDate and format.
func (in ReleaseInput) ValidateCreate() error {
	return in.validate(true)
}

// ValidatePatch checks only the fields that are present.
func (in ReleaseInput) ValidatePatch() error {
	return in.validate(false)
}

func (in ReleaseInput) validate(create bool) error {
	var fe fieldErrors
	fe.requireText("title", in.Title, create)
	fe.requireText("artist", in.Artist, create)

	if in.ReleaseDate == nil {
		if create {
			fe.miss("releaseDate")
		}
	} else if _, err := ParseDate(*in.ReleaseDate); err != nil {
		fe.invalidf("releaseDate")
	}

	if in.Format == nil {
		if create {
			fe.miss("format")
		}
	} else if !in.Format.Valid() {
		fe.invalidf("format")
	}
	return fe.err()
}

// ToRelease builds the row to insert. Call ValidateCreate first.
func (in ReleaseInput) ToRelease() *Release {
	r := &Release{
		Description:     in.Description,
		ImageURL:        in.ImageURL,
		AudioPreviewURL: in.AudioPreviewURL,
		YoutubeLink:     in.YoutubeLink,
		SpotifyLink:     in.SpotifyLink,
		AppleMusicLink:  in.AppleMusicLink,
		StoreLink:       in.StoreLink,
	}
	if in.Title != nil {
		r.Title = *in.Title
	}
	if in.Artist != nil {
		r.Artist = *in.Artist
	}
	if in.ReleaseDate != nil {
		r.ReleaseDate, _ = ParseDate(*in.ReleaseDate)
	}
	if in.Format != nil {
		r.Format = *in.Format
	}
	return r
}

// Updates maps the present fields to their columns. Column names are fixed
// here, never taken from the request.
func (in ReleaseInput) Updates() map[string]interface{} {
	u := map[string]interface{}{}
	if in.Title != nil {
		u["title"] = *in.Title
	}
	if in.Artist != nil {
		u["artist"] = *in.Artist
	}
	if in.ReleaseDate != nil {
		if t, err := ParseDate(*in.ReleaseDate); err == nil {
			u["releaseDate"] = t
		}
	}
	if in.Description != nil {
		u["description"] = *in.Description
	}
	if in.Format != nil {
		u["format"] = *in.Format
	}
	if in.ImageURL != nil {
		u["imageUrl"] = *in.ImageURL
	}
	if in.AudioPreviewURL != nil {
		u["audioPreviewUrl"] = *in.AudioPreviewURL
	}
	if in.YoutubeLink != nil {
		u["youtubeLink"] = *in.YoutubeLink
	}
	if in.SpotifyLink != nil {
		u["spotifyLink"] = *in.SpotifyLink
	}
	if in.AppleMusicLink != nil {
		u["appleMusicLink"] = *in.AppleMusicLink
	}
	if in.StoreLink != nil {
		u["storeLink"] = *in.StoreLink
	}
	return u
}
