package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPreservesInsertionOrder(t *testing.T) {
	s := NewSet("JOHN SMITH", "JANE DOE")
	s.Add("JOHN SMITH") // duplicate, ignored
	s.Add("ALEX KIM")

	assert.Equal(t, []string{"JOHN SMITH", "JANE DOE", "ALEX KIM"}, s.Values())
	assert.Equal(t, 3, s.Len())
}

func TestSetAllowsEmptyPlaceholder(t *testing.T) {
	s := NewSet()
	s.Add("")
	s.Add("A")
	assert.Equal(t, []string{"", "A"}, s.Values())

	s.Remove("")
	assert.Equal(t, []string{"A"}, s.Values())
}

func TestSetAddAll(t *testing.T) {
	a := NewSet("X", "Y")
	b := NewSet("Y", "Z")
	a.AddAll(b)
	assert.Equal(t, []string{"X", "Y", "Z"}, a.Values())

	a.AddAll(nil)
	assert.Equal(t, 3, a.Len())
}

func TestSetReplace(t *testing.T) {
	s := NewSet("A", "B", "C")
	s.Replace([]string{"C", "A"})
	assert.Equal(t, []string{"C", "A"}, s.Values())
}

func TestSetJSON(t *testing.T) {
	s := NewSet("B", "A")
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `["B","A"]`, string(data))

	var empty *Set = NewSet()
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	var decoded Set
	require.NoError(t, json.Unmarshal([]byte(`["Z","Y","Z"]`), &decoded))
	assert.Equal(t, []string{"Z", "Y"}, decoded.Values())
}

func TestSetValuesIsACopy(t *testing.T) {
	s := NewSet("A", "B")
	values := s.Values()
	values[0] = "MUTATED"
	assert.Equal(t, []string{"A", "B"}, s.Values())
}
