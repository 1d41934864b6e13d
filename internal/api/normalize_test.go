package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type widget struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestNormalizeList_BareArray(t *testing.T) {
	raw := []byte(`[{"id":1,"name":"a"},{"id":2,"name":"b"}]`)
	items, err := NormalizeList[widget](raw)
	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ID)
	assert.Equal(t, "b", items[1].Name)
}

func TestNormalizeList_ValuesWrapper(t *testing.T) {
	raw := []byte(`{"$values":[{"id":3,"name":"c"}]}`)
	items, err := NormalizeList[widget](raw)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 3, items[0].ID)
}

func TestNormalizeList_DataWrapper(t *testing.T) {
	raw := []byte(`{"data":[{"id":4,"name":"d"},{"id":5,"name":"e"}]}`)
	items, err := NormalizeList[widget](raw)
	assert.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestNormalizeList_SingleObject(t *testing.T) {
	raw := []byte(`{"id":6,"name":"f"}`)
	items, err := NormalizeList[widget](raw)
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 6, items[0].ID)
}

func TestNormalizeList_EmptyAndNull(t *testing.T) {
	for _, raw := range []string{"", "null", "  "} {
		items, err := NormalizeList[widget]([]byte(raw))
		assert.NoError(t, err, "payload %q", raw)
		assert.Empty(t, items)
	}
}

func TestNormalizeList_EmptyWrappedList(t *testing.T) {
	items, err := NormalizeList[widget]([]byte(`{"$values":[]}`))
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestNormalizeList_MalformedElementDropped(t *testing.T) {
	raw := []byte(`[{"id":1,"name":"a"},"garbage",{"id":2,"name":"b"}]`)
	items, err := NormalizeList[widget](raw)
	assert.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestNormalizeList_UnexpectedShape(t *testing.T) {
	_, err := NormalizeList[widget]([]byte(`42`))
	assert.ErrorIs(t, err, ErrTransport)

	_, err = NormalizeList[widget]([]byte(`"just a string"`))
	assert.ErrorIs(t, err, ErrTransport)
}
