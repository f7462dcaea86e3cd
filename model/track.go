package model

import (
	"regexp"
	"time"
)

// Track is one song on a release.
//
// ReleaseID is not a foreign key: a track may be stored before (or without)
// its release, and deleting a release removes its tracks in the repository.
// TrackNumber orders tracks within a release; duplicates are accepted.
type Track struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ReleaseID   int64     `gorm:"column:releaseId;not null;index:idx_tracks_release_number,priority:1" json:"releaseId"`
	TrackNumber int       `gorm:"column:trackNumber;not null;index:idx_tracks_release_number,priority:2" json:"trackNumber"`
	Artist      string    `gorm:"column:artist;type:varchar(255);not null" json:"artist"`
	Title       string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Length      string    `gorm:"column:length;type:varchar(10);not null" json:"length"` // M:SS or MM:SS
	CreatedAt   time.Time `gorm:"column:createdAt" json:"createdAt"`
}

func (Track) TableName() string { return "tracks" }

var trackLength = regexp.MustCompile(`^[0-9]{1,2}:[0-5][0-9]$`)

// ValidTrackLength reports whether s is formatted M:SS or MM:SS.
func ValidTrackLength(s string) bool {
	return trackLength.MatchString(s)
}

// TrackInput carries track fields from a write request; see ReleaseInput.
type TrackInput struct {
	ReleaseID   *int64  `json:"releaseId"`
	TrackNumber *int    `json:"trackNumber"`
	Artist      *string `json:"artist"`
	Title       *string `json:"title"`
	Length      *string `json:"length"`
}

// ValidateCreate requires every field.
func (in TrackInput) ValidateCreate() error {
	return in.validate(true)
}

// ValidatePatch checks only the fields that are present.
func (in TrackInput) ValidatePatch() error {
	return in.validate(false)
}

func (in TrackInput) validate(create bool) error {
	var fe fieldErrors
	if in.ReleaseID == nil {
		if create {
			fe.miss("releaseId")
		}
	} else if *in.ReleaseID <= 0 {
		fe.invalidf("releaseId")
	}

	if in.TrackNumber == nil {
		if create {
			fe.miss("trackNumber")
		}
	} else if *in.TrackNumber <= 0 {
		fe.invalidf("trackNumber")
	}

	fe.requireText("artist", in.Artist, create)
	fe.requireText("title", in.Title, create)

	if in.Length == nil {
		if create {
			fe.miss("length")
		}
	} else if !ValidTrackLength(*in.Length) {
		fe.invalidf("length")
	}
	return fe.err()
}

// ToTrack builds the row to insert. Call ValidateCreate first.
func (in TrackInput) ToTrack() *Track {
	t := &Track{}
	if in.ReleaseID != nil {
		t.ReleaseID = *in.ReleaseID
	}
	if in.TrackNumber != nil {
		t.TrackNumber = *in.TrackNumber
	}
	if in.Artist != nil {
		t.Artist = *in.Artist
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Length != nil {
		t.Length = *in.Length
	}
	return t
}

// Updates maps the present fields to their columns.
func (in TrackInput) Updates() map[string]interface{} {
	u := map[string]interface{}{}
	if in.ReleaseID != nil {
		u["releaseId"] = *in.ReleaseID
	}
	if in.TrackNumber != nil {
		u["trackNumber"] = *in.TrackNumber
	}
	if in.Artist != nil {
		u["artist"] = *in.Artist
	}
	if in.Title != nil {
		u["title"] = *in.Title
	}
	if in.Length != nil {
		u["length"] = *in.Length
	}
	return u
}
