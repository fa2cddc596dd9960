package mxgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAcceptsCompleteDocument(t *testing.T) {
	res := Validate(twoNodeDoc)
	assert.True(t, res.Valid)
	assert.Equal(t, "document structure is valid", res.Message)
}

func TestValidateMissingMarkers(t *testing.T) {
	res := Validate("<mxGraphModel><root></root></mxGraphModel>")
	assert.False(t, res.Valid)
	assert.Contains(t, res.Message, "<mxfile")

	res = Validate("<mxfile><diagram></diagram></mxfile>")
	assert.False(t, res.Valid)
	assert.Contains(t, res.Message, "mxGraphModel")
}

func TestValidateStripsFenceFirst(t *testing.T) {
	res := Validate("```xml\n" + twoNodeDoc + "\n```")
	assert.True(t, res.Valid)
}

func TestValidateReportsDuplicateIDs(t *testing.T) {
	input := `<mxfile><diagram><mxGraphModel><root>
		<mxCell id="0" />
		<mxCell id="1" parent="0" />
		<mxCell id="dup" vertex="1" parent="1" />
		<mxCell id="dup" vertex="1" parent="1" />
	</root></mxGraphModel></diagram></mxfile>`

	res := Validate(input)
	assert.True(t, res.Valid)
	assert.Contains(t, res.Message, "duplicate cell ids")
	assert.Contains(t, res.Message, "dup")
}

func TestStripFence(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"plain fence":   {"```\n<mxfile />\n```", "<mxfile />"},
		"xml tag":       {"```xml\n<mxfile />\n```", "<mxfile />"},
		"no fence":      {"  <mxfile />  ", "<mxfile />"},
		"trailing text": {"```xml\n<mxfile />\n```", "<mxfile />"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripFence(tc.in))
		})
	}
}
