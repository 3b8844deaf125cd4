package fetch

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pders01/vodfall/internal/source"
)

// FlexString accepts any JSON scalar as text. Upstream APIs disagree on
// whether ids, years and even titles are quoted.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) == 0 {
		*s = ""
		return nil
	}
	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
	case 't':
		*s = "true"
	case 'f', '{', '[':
		// Falsy or structured values carry no displayable text.
		*s = ""
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return err
		}
		*s = FlexString(num.String())
	}
	return nil
}

func (s FlexString) String() string { return string(s) }

// FlexInt is an optional integer that may arrive as a number or numeric
// string. Non-numeric values decode as absent.
type FlexInt struct {
	Value int
	Valid bool
}

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	*n = FlexInt{}
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	if v, err := strconv.Atoi(raw); err == nil {
		*n = FlexInt{Value: v, Valid: true}
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*n = FlexInt{Value: int(f), Valid: true}
	}
	return nil
}

func (n FlexInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(n.Value)), nil
}

// Item is one search result. SourceName and SourceCode are set by the
// fetcher when the page arrives.
type Item struct {
	ID         FlexString `json:"vod_id"`
	Name       string     `json:"vod_name"`
	Pic        string     `json:"vod_pic,omitempty"`
	Remarks    string     `json:"vod_remarks,omitempty"`
	TypeName   string     `json:"type_name,omitempty"`
	Year       FlexString `json:"vod_year,omitempty"`
	Area       string     `json:"vod_area,omitempty"`
	Director   string     `json:"vod_director,omitempty"`
	Actor      string     `json:"vod_actor,omitempty"`
	Content    string     `json:"vod_content,omitempty"`
	PlayFrom   string     `json:"vod_play_from,omitempty"`
	PlayURL    string     `json:"vod_play_url,omitempty"`
	SourceName string     `json:"source_name,omitempty"`
	SourceCode string     `json:"source_code,omitempty"`
}

// UnmarshalJSON treats an item as an opaque record: every field is read as
// text whatever its JSON type, so one odd field cannot fail the whole page.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         FlexString `json:"vod_id"`
		Name       FlexString `json:"vod_name"`
		Pic        FlexString `json:"vod_pic"`
		Remarks    FlexString `json:"vod_remarks"`
		TypeName   FlexString `json:"type_name"`
		Year       FlexString `json:"vod_year"`
		Area       FlexString `json:"vod_area"`
		Director   FlexString `json:"vod_director"`
		Actor      FlexString `json:"vod_actor"`
		Content    FlexString `json:"vod_content"`
		PlayFrom   FlexString `json:"vod_play_from"`
		PlayURL    FlexString `json:"vod_play_url"`
		SourceName FlexString `json:"source_name"`
		SourceCode FlexString `json:"source_code"`
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		*i = Item{}
		return nil
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = Item{
		ID:         raw.ID,
		Name:       raw.Name.String(),
		Pic:        raw.Pic.String(),
		Remarks:    raw.Remarks.String(),
		TypeName:   raw.TypeName.String(),
		Year:       raw.Year,
		Area:       raw.Area.String(),
		Director:   raw.Director.String(),
		Actor:      raw.Actor.String(),
		Content:    raw.Content.String(),
		PlayFrom:   raw.PlayFrom.String(),
		PlayURL:    raw.PlayURL.String(),
		SourceName: raw.SourceName.String(),
		SourceCode: raw.SourceCode.String(),
	}
	return nil
}

// HasCover reports whether Pic is an absolute http(s) URL.
func (i *Item) HasCover() bool {
	return strings.HasPrefix(i.Pic, "http")
}

// Response is one page of a source's search API. List is a pointer so a
// missing field can be told apart from an empty one.
type Response struct {
	List      *[]*Item `json:"list"`
	Page      FlexInt  `json:"page"`
	PageCount FlexInt  `json:"pagecount"`
	Total     FlexInt  `json:"total"`
}

// Items returns the page's items, or nil when the list is absent.
func (r *Response) Items() []*Item {
	if r == nil || r.List == nil {
		return nil
	}
	return *r.List
}

// Outcome is the result of one page fetch. Exactly one of Data and Err is set.
type Outcome struct {
	Source source.Source
	Data   *Response
	Page   int
	Err    error
}

// Empty reports whether the outcome carries no items, for any reason.
func (o Outcome) Empty() bool {
	return o.Err != nil || o.Data == nil || len(o.Data.Items()) == 0
}
