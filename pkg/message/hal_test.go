package message

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/apina/pkg/value"
)

func TestHAL(t *testing.T) {
	data, err := value.ParseObject([]byte(`{"folder":"dir1","_links":"stored","count":2}`))
	require.NoError(t, err)

	out, err := json.Marshal(HAL(data, SelfLinks("/gallery/1"), nil))
	require.NoError(t, err)
	assert.Equal(t, `{"_links":{"self":{"href":"/gallery/1"}},"folder":"dir1","count":2}`, string(out))
}

func TestHAL_EmptyLinksOmitted(t *testing.T) {
	data := value.NewObject()
	data.Set("_links", value.String("kept"))

	out, err := json.Marshal(HAL(data, value.NewObject(), value.NewObject()))
	require.NoError(t, err)
	assert.Equal(t, `{"_links":"kept"}`, string(out))
}

func TestHAL_Embedded(t *testing.T) {
	embedded := value.NewObject()
	embedded.Set("items", value.List{})

	out, err := json.Marshal(HAL(nil, SelfLinks("/x"), embedded))
	require.NoError(t, err)
	assert.Equal(t, `{"_links":{"self":{"href":"/x"}},"_embedded":{"items":[]}}`, string(out))
}

func TestErrorBodyAndHrefs(t *testing.T) {
	out, err := json.Marshal(ErrorBody(`Unknown resource type "x"`))
	require.NoError(t, err)
	assert.Equal(t, `{"error":{"message":"Unknown resource type \"x\""}}`, string(out))

	out, err = json.Marshal(Hrefs(nil))
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(out))
}
