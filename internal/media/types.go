// Package media stores the file attachments of a node: images, files
// and videos. The records only carry titles, grouping and storage paths;
// upload handling and derivative generation stay with the host.
package media

import (
	"github.com/uptrace/bun"
)

// Image is a node-owned image record.
type Image struct {
	bun.BaseModel `bun:"table:images,alias:img"`

	ID     int64  `bun:"id,pk,autoincrement" json:"id"`
	NodeID int64  `bun:"node_id,notnull" json:"node_id"`
	Title  string `bun:"title,notnull,default:''" json:"title"`
	Group  string `bun:"media_group,notnull,default:''" json:"group"`
	Path   string `bun:"path,notnull" json:"path"`
}

// File is a node-owned document record.
type File struct {
	bun.BaseModel `bun:"table:files,alias:fl"`

	ID     int64  `bun:"id,pk,autoincrement" json:"id"`
	NodeID int64  `bun:"node_id,notnull" json:"node_id"`
	Title  string `bun:"title,notnull,default:''" json:"title"`
	Group  string `bun:"media_group,notnull,default:''" json:"group"`
	Path   string `bun:"path,notnull" json:"path"`
}

// VideoType is the media type attribute rendered into video sources.
type VideoType string

const (
	VideoMP4   VideoType = "mp4"
	VideoWebM  VideoType = "webm"
	VideoOgg   VideoType = "ogg"
	VideoFLV   VideoType = "flv"
	VideoSWF   VideoType = "swf"
	VideoJPG   VideoType = "jpg"
	VideoUnset VideoType = ""
)

// MimeType returns the source media type for the video type.
func (t VideoType) MimeType() string {
	switch t {
	case VideoMP4:
		return "video/mp4"
	case VideoWebM:
		return "video/webm"
	case VideoOgg:
		return "video/ogg"
	case VideoFLV:
		return "video/flv"
	case VideoSWF:
		return "application/x-shockwave-flash"
	case VideoJPG:
		return "image/jpeg"
	}
	return ""
}

// Video is a node-owned video source record. A node commonly owns
// several sources of the same clip in different containers.
type Video struct {
	bun.BaseModel `bun:"table:videos,alias:vd"`

	ID     int64     `bun:"id,pk,autoincrement" json:"id"`
	NodeID int64     `bun:"node_id,notnull" json:"node_id"`
	Title  string    `bun:"title,notnull,default:''" json:"title"`
	Group  string    `bun:"media_group,notnull,default:''" json:"group"`
	Path   string    `bun:"path,notnull" json:"path"`
	Type   VideoType `bun:"type,notnull,default:''" json:"type"`
	Media  string    `bun:"media,notnull,default:''" json:"media"`
}
