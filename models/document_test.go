package models

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSections_PreservesInsertionOrder(t *testing.T) {
	s := NewSections()
	s.Set("Introduction", "intro")
	s.Set("History", "past")
	s.Set("Applications", "uses")

	assert.Equal(t, []string{"Introduction", "History", "Applications"}, s.Names())
	assert.Equal(t, []string{"intro", "past", "uses"}, s.Texts())
}

func TestSections_LastWriteWinsKeepsPosition(t *testing.T) {
	s := NewSections()
	s.Set("A", "1")
	s.Set("B", "2")
	s.Set("A", "3")

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"A", "B"}, s.Names())
	got, ok := s.Get("A")
	require.True(t, ok)
	assert.Equal(t, "3", got)
}

func TestSections_MarshalJSONOrdered(t *testing.T) {
	s := NewSections()
	s.Set("Zeta", "z")
	s.Set("Alpha", `a "quoted"`)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"Zeta":"z","Alpha":"a \"quoted\""}`, string(b))
}

func TestEmptyQuiz_SerialisesAsArrays(t *testing.T) {
	b, err := json.Marshal(EmptyQuiz())
	require.NoError(t, err)
	assert.JSONEq(t, `{"multiple_choice":[],"open_questions":[]}`, string(b))
}
