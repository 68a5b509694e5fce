package types

import "encoding/json"

// Palindrome is one window of the normalized letter stream that reads the same
// in both directions. Start and End are byte offsets into the scanned text, so
// Original == text[Start:End] including any punctuation or spaces between the
// matched letters.
type Palindrome struct {
	Normalized string `json:"normalized"`
	Original   string `json:"original"`
	Length     int    `json:"length"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

// Match is a palindrome located in a file of a scanned corpus.
type Match struct {
	Palindrome
	Path string `json:"path"`
	Line int    `json:"line"`
	ID   string `json:"id"`
}

// Discovery is a palindrome reported by the generative oracle rather than the
// local scanner. Meaning is optional.
type Discovery struct {
	Text    string `json:"text"`
	Book    string `json:"book"`
	Chapter Ref    `json:"chapter"`
	Verse   Ref    `json:"verse"`
	Meaning string `json:"meaning,omitempty"`
}

// Source is the oracle's answer to "where in the Tanakh does this come from".
type Source struct {
	Found   bool   `json:"found"`
	Book    string `json:"book,omitempty"`
	Chapter Ref    `json:"chapter,omitempty"`
	Verse   Ref    `json:"verse,omitempty"`
}

// String renders a found source as "book chapter:verse".
func (s Source) String() string {
	if !s.Found {
		return ""
	}
	return s.Book + " " + string(s.Chapter) + ":" + string(s.Verse)
}

// Ref is a chapter or verse reference. It decodes from a JSON string
// ("כב", "22") or a JSON number (22) and always encodes as a string.
type Ref string

func (r *Ref) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*r = Ref(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*r = Ref(n.String())
	return nil
}
