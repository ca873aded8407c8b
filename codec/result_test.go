package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecseg/model"
)

func TestFormatEntry(t *testing.T) {
	assert.Equal(t, "1024->0.000000", FormatEntry(1024, 0))
	assert.Equal(t, "48942->0.641860", FormatEntry(48942, 0.64186))
	assert.Equal(t, "3->0.666667", FormatEntry(3, float32(2)/3))
	assert.Equal(t, "7->-12.500000", FormatEntry(7, -12.5))
}

func TestParseEntry(t *testing.T) {
	id, dist, err := ParseEntry("48942->0.641860")
	require.NoError(t, err)
	assert.Equal(t, model.ID(48942), id)
	assert.InDelta(t, 0.64186, dist, 1e-6)

	for _, bad := range []string{"", "12", "x->1.0", "12->y"} {
		_, _, err := ParseEntry(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatResult(t *testing.T) {
	r := model.SearchResult{
		{{ID: 1024, Distance: 0}, {ID: 7, Distance: 0.5}},
		{},
	}
	assert.Equal(t, [][]string{{"1024->0.000000", "7->0.500000"}, {}}, FormatResult(r))
}

func TestFormatFlat(t *testing.T) {
	ids := []int64{4, 2, -1, 9, -1, -1}
	dists := []float32{0.1, 0.2, 0, 1.5, 0, 0}

	got, err := FormatFlat(ids, dists, 3)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"4->0.100000", "2->0.200000"},
		{"9->1.500000"},
	}, got)

	_, err = FormatFlat(ids, dists[:5], 3)
	assert.Error(t, err)
	_, err = FormatFlat(ids, dists, 4)
	assert.Error(t, err)
	_, err = FormatFlat(ids, dists, 0)
	assert.Error(t, err)
}

func TestFlatten(t *testing.T) {
	r := model.SearchResult{{{ID: 3, Distance: 1}}, {{ID: 5, Distance: 2}, {ID: 6, Distance: 3}}}

	ids, dists := Flatten(r, 2)
	assert.Equal(t, []int64{3, -1, 5, 6}, ids)
	assert.Equal(t, []float32{1, 0, 2, 3}, dists)

	got, err := FormatFlat(ids, dists, 2)
	require.NoError(t, err)
	assert.Equal(t, FormatResult(r), got)
}

func TestMarshalResults(t *testing.T) {
	r := model.SearchResult{
		{{ID: 1024, Distance: 0}, {ID: 48942, Distance: 0.64186}},
		{{ID: 1025, Distance: 0}},
	}
	want := `[[["1024->0.000000","48942->0.641860"],["1025->0.000000"]]]`

	for _, c := range []Codec{JSON{}, GoJSON{}, nil} {
		data, err := MarshalResults(c, r)
		require.NoError(t, err)
		assert.JSONEq(t, want, string(data))

		doc, err := UnmarshalResults(c, data)
		require.NoError(t, err)
		assert.Equal(t, [][][]string{FormatResult(r)}, doc)
	}

	_, err := UnmarshalResults(JSON{}, []byte("{"))
	assert.Error(t, err)
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	c, ok = ByName("go-json")
	require.True(t, ok)
	assert.Equal(t, "go-json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)

	assert.Equal(t, `["a"]`, string(MustMarshal(nil, []string{"a"})))
}
