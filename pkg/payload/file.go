package payload

import (
	"path"
	"strings"
	"time"
)

// Default file names offered to visitors.
const (
	TemplateFilename = "meeting-text-template.txt"
	InviteFilename   = "follow-up-with-scott.ics"
	VCardFilename    = "scott-zaleski.vcf"
)

// Content types of the generated and referenced files.
const (
	ContentTypeText     = "text/plain; charset=utf-8"
	ContentTypeCalendar = "text/calendar; charset=utf-8"
	ContentTypeVCard    = "text/vcard; charset=utf-8"
)

// File is a payload materialised in memory, ready to be downloaded.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// TextFile returns the raw message as a plain-text download, unmodified.
func TextFile(name string, message Template) File {
	if name == "" {
		name = TemplateFilename
	}
	return File{Name: name, ContentType: ContentTypeText, Data: []byte(message)}
}

// InviteFile returns the calendar invite for now as a download.
func InviteFile(name string, inv Invite, now time.Time) File {
	if name == "" {
		name = InviteFilename
	}
	return File{Name: name, ContentType: ContentTypeCalendar, Data: []byte(inv.Build(now))}
}

// Asset references the vCard served by the hosting layer. The card never
// generates it; Path may be a site path, an http(s) URL or an s3:// URL.
type Asset struct {
	Path     string
	Filename string
}

// DownloadName returns the file name the asset is saved under.
func (a Asset) DownloadName() string {
	if a.Filename != "" {
		return a.Filename
	}
	if base := path.Base(a.Path); base != "." && base != "/" {
		return base
	}
	return VCardFilename
}

// IsRemote reports whether the asset lives outside the site's own paths.
func (a Asset) IsRemote() bool {
	return strings.Contains(a.Path, "://")
}
