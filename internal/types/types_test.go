package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRef_DecodesStringsAndNumbers(t *testing.T) {
	cases := map[string]Ref{
		`"כב"`: "כב",
		`"22"`: "22",
		`22`:   "22",
		`7.0`:  "7.0",
		`null`: "",
	}
	for in, want := range cases {
		var r Ref
		require.NoError(t, json.Unmarshal([]byte(in), &r), in)
		assert.Equal(t, want, r, in)
	}

	var r Ref
	assert.Error(t, json.Unmarshal([]byte(`true`), &r))
	assert.Error(t, json.Unmarshal([]byte(`{"n":1}`), &r))
}

func TestSource_NumericReferences(t *testing.T) {
	var s Source
	require.NoError(t, json.Unmarshal([]byte(`{"found":true,"book":"Genesis","chapter":22,"verse":7}`), &s))
	assert.Equal(t, "Genesis 22:7", s.String())

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"found":true,"book":"Genesis","chapter":"22","verse":"7"}`, string(b))
}
