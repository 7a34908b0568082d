package apod

import (
	"cmp"

	"golang.org/x/text/unicode/norm"
)

// Entry is one APOD object as returned by the NASA API. Only the fields the
// pipeline consumes are decoded; the API sends more (hdurl, copyright,
// service_version) which are deliberately ignored.
type Entry struct {
	Date         string `json:"date"`
	Title        string `json:"title"`
	Explanation  string `json:"explanation"`
	MediaType    string `json:"media_type"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Record is the flat staged row keyed by date. One record per calendar day;
// date is the unique key all the way into the store.
type Record struct {
	Date        string
	Title       string
	Explanation string
	MediaType   string
	ImageURL    string
}

// Project reshapes a raw entry into a staged record. Media type defaults to
// "image" when the API omits it, and for video entries the image URL falls
// back to the thumbnail since the primary URL points at the video itself.
// Text fields are NFC-normalized; semantic values are never altered.
func (e Entry) Project() Record {
	return Record{
		Date:        e.Date,
		Title:       norm.NFC.String(e.Title),
		Explanation: norm.NFC.String(e.Explanation),
		MediaType:   cmp.Or(e.MediaType, "image"),
		ImageURL:    cmp.Or(e.URL, e.ThumbnailURL),
	}
}

// Columns is the staged CSV header, in store column order.
var Columns = []string{"date", "title", "explanation", "media_type", "image_url"}

// Row returns the record's fields in Columns order.
func (r Record) Row() []string {
	return []string{r.Date, r.Title, r.Explanation, r.MediaType, r.ImageURL}
}
