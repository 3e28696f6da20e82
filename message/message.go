// Package message defines the records exchanged with the page-side collaborators
// and the envelope that frames them on the wire.
package message

import (
	"github.com/samber/mo"
	"github.com/vidscout/vidscout/registry"
)

// ObservedResponse is a media-like response seen by the network interceptor.
type ObservedResponse struct {
	ContextID   string            `json:"contextId" jsonschema:"description=Browsing context the response belongs to"`
	URL         string            `json:"url"`
	ContentType mo.Option[string] `json:"contentType"`
	Size        mo.Option[int64]  `json:"size" jsonschema:"description=Content-Length in bytes"`
}

// RawCandidate is a candidate found inside the page by a DOM scan, script
// extraction or a page event.
type RawCandidate struct {
	ContextID  string            `json:"contextId"`
	URL        string            `json:"url"`
	Source     string            `json:"source" jsonschema:"description=Detector tag; unknown tags are treated as dom"`
	Quality    mo.Option[string] `json:"quality"`
	Title      mo.Option[string] `json:"title"`
	IsPlaylist mo.Option[bool]   `json:"isPlaylist"`
	PageURL    mo.Option[string] `json:"pageUrl"`
}

// DOMRecord is the tuple handed over by the DOM inspection utilities.
type DOMRecord struct {
	ContextID string            `json:"contextId"`
	URL       string            `json:"url"`
	Visible   bool              `json:"visible"`
	Playing   bool              `json:"playing"`
	Title     mo.Option[string] `json:"title"`
	PageURL   mo.Option[string] `json:"pageUrl"`
}

// PageSnapshot carries the serialized document of a page.
type PageSnapshot struct {
	ContextID string `json:"contextId"`
	PageURL   string `json:"pageUrl"`
	HTML      string `json:"html"`
}

// EmbeddedData carries a JSON blob lifted from the page, such as a hydration
// state or a player config.
type EmbeddedData struct {
	ContextID string `json:"contextId"`
	PageURL   string `json:"pageUrl"`
	Body      string `json:"body"`
}

// NavigationChanged tells that the top-level document of a context changed.
type NavigationChanged struct {
	ContextID string `json:"contextId"`
}

// ContextClosed tells that a context is gone for good.
type ContextClosed struct {
	ContextID string `json:"contextId"`
}

// Location reports the current top-level URL of a context.
type Location struct {
	ContextID string `json:"contextId"`
	URL       string `json:"url"`
}

// Query asks for the ranked candidates of a context.
type Query struct {
	ContextID string         `json:"contextId"`
	Limit     mo.Option[int] `json:"limit"`
}

// RankedCandidates answers a Query.
type RankedCandidates struct {
	ContextID string               `json:"contextId"`
	Items     []registry.Candidate `json:"items"`
}

// Error is sent back when an incoming frame cannot be handled.
type Error struct {
	Message string `json:"message"`
}
