package wizard

import (
	"encoding/json"

	"github.com/birrama/careers/internal/catalog"
)

// Selection is the job the applicant picked: none, a fellowship track, or a full-time role.
type Selection struct {
	kind  catalog.Kind
	index int
}

func NoSelection() Selection { return Selection{} }

func FellowshipJob(index int) Selection {
	return Selection{kind: catalog.KindFellowship, index: index}
}

func FulltimeJob(index int) Selection {
	return Selection{kind: catalog.KindFulltime, index: index}
}

func (s Selection) IsNone() bool { return s.kind == "" }

func (s Selection) Kind() catalog.Kind { return s.kind }

func (s Selection) Fellowship() (int, bool) {
	return s.index, s.kind == catalog.KindFellowship
}

func (s Selection) Fulltime() (int, bool) {
	return s.index, s.kind == catalog.KindFulltime
}

// Listing resolves the selection against c. It reports false for no selection or a stale index.
func (s Selection) Listing(c *catalog.Catalog) (catalog.JobListing, bool) {
	if s.IsNone() {
		return catalog.JobListing{}, false
	}
	return c.Listing(s.kind, s.index)
}

type selectionJSON struct {
	Kind  catalog.Kind `json:"kind"`
	Index int          `json:"index"`
}

func (s Selection) MarshalJSON() ([]byte, error) {
	if s.IsNone() {
		return []byte("null"), nil
	}
	return json.Marshal(selectionJSON{Kind: s.kind, Index: s.index})
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = NoSelection()
		return nil
	}
	var raw selectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind, err := catalog.ParseKind(string(raw.Kind))
	if err != nil {
		return err
	}
	*s = Selection{kind: kind, index: raw.Index}
	return nil
}
