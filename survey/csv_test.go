// SPDX-License-Identifier: MIT
package survey_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/katalvlaran/geoinv/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := `# field export
value, A, B, M, N, X, Y
120.5,0,5,10,15,7.5,2.1
98,5,10,15,20,12.5,2.1
`
	points, err := survey.ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, survey.DataPoint{X: 7.5, Y: 2.1, Value: 120.5, A: 0, B: 5, M: 10, N: 15}, points[0])
	assert.Equal(t, 98.0, points[1].Value)
}

func TestReadCSV_Malformed(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"missing column": "x,y,value,a,b,m\n1,2,3,4,5,6\n",
		"duplicate":      "x,x,y,value,a,b,m,n\n",
		"bad number":     "x,y,value,a,b,m,n\n1,2,abc,4,5,6,7\n",
		"short record":   "x,y,value,a,b,m,n\n1,2,3\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := survey.ReadCSV(strings.NewReader(in))
			assert.ErrorIs(t, err, survey.ErrMalformedCSV)
		})
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	points, err := survey.DipoleDipole(6, 2.5, 2)
	require.NoError(t, err)
	for i := range points {
		points[i].Value = 100.0 / float64(i+3)
	}

	var buf bytes.Buffer
	require.NoError(t, survey.WriteCSV(&buf, points))
	assert.True(t, strings.HasPrefix(buf.String(), "x,y,value,a,b,m,n\n"))

	back, err := survey.ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, points, back)
}
