// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// MailingList is a GetResponse campaign. It is fetched on demand and never persisted.
type MailingList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ListOption is a MailingList as rendered in the list selector.
type ListOption struct {
	MailingList
	Selected bool
}

// ListState tells the renderer which variant of the list selector to produce.
type ListState string

const (
	// ListStateDisabled is used when no API key is available
	ListStateDisabled ListState = "disabled"
	// ListStateError is used when GetResponse could not be reached or refused the key
	ListStateError ListState = "error"
	// ListStateReady is used when the campaigns were fetched
	ListStateReady ListState = "ready"
)

// ListResult is the outcome of a list fetch.
type ListResult struct {
	State   ListState
	Options []ListOption
	// Err holds the failure when State is ListStateError.
	Err error
}

// NewListResult marks the option whose id equals selectedID, keeping the input order.
func NewListResult(lists []MailingList, selectedID string) ListResult {
	options := make([]ListOption, 0, len(lists))
	for _, l := range lists {
		options = append(options, ListOption{
			MailingList: l,
			Selected:    selectedID != "" && l.ID == selectedID,
		})
	}
	return ListResult{State: ListStateReady, Options: options}
}

// Selected returns the selected option, if any.
func (r ListResult) Selected() (ListOption, bool) {
	for _, o := range r.Options {
		if o.Selected {
			return o, true
		}
	}
	return ListOption{}, false
}
