package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, raw string) *HostResponse {
	t.Helper()
	var resp HostResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	return &resp
}

func TestHostResponse_Classify(t *testing.T) {
	resp := decodeResponse(t, `{"ok":true,"mode":"classify","result":{"binary":"bullying","type":"insult","p_bully":0.93}}`)

	res, err := resp.Classify()
	require.NoError(t, err)
	assert.True(t, res.IsBullying())
	assert.Equal(t, "insult", res.Category())
	assert.InDelta(t, 0.93, res.PBully, 1e-9)
}

func TestHostResponse_ClassifyNotBullyingWithNullType(t *testing.T) {
	resp := decodeResponse(t, `{"ok":true,"mode":"classify","result":{"binary":"not_cyberbullying","type":null,"p_bully":0.1,"type_probs":null}}`)

	res, err := resp.Classify()
	require.NoError(t, err)
	assert.False(t, res.IsBullying())
	assert.Equal(t, "", res.Category())
}

func TestHostResponse_ModeMismatch(t *testing.T) {
	resp := decodeResponse(t, `{"ok":true,"mode":"scan","result":{"hits":[],"total_chunks":0}}`)

	_, err := resp.Classify()
	assert.Error(t, err)
	assert.False(t, resp.Matches(CommandClassify))
	assert.True(t, resp.Matches(CommandScan))
}

func TestHostResponse_ScanKeepsHostOrder(t *testing.T) {
	resp := decodeResponse(t, `{"ok":true,"mode":"scan","result":{"hits":[
		{"type":"gender","p_bully":0.7,"snippet":"b"},
		{"type":"age","p_bully":0.9,"snippet":"a"}],"total_chunks":4}}`)

	res, err := resp.Scan()
	require.NoError(t, err)
	require.Len(t, res.Hits, 2)
	assert.Equal(t, "gender", res.Hits[0].Category())
	assert.Equal(t, "age", res.Hits[1].Category())
	assert.Equal(t, 4, res.TotalChunks)
}

func TestHostResponse_RejectsOutOfRange(t *testing.T) {
	resp := decodeResponse(t, `{"ok":true,"mode":"classify","result":{"binary":"bullying","type":"x","p_bully":1.5}}`)
	_, err := resp.Classify()
	assert.Error(t, err)

	resp = decodeResponse(t, `{"ok":true,"mode":"scan","result":{"hits":[],"total_chunks":-1}}`)
	_, err = resp.Scan()
	assert.Error(t, err)
}

func TestHostResponse_Batch(t *testing.T) {
	resp := decodeResponse(t, `{"ok":true,"mode":"batch","result":[{"binary":"bullying","type":"age","p_bully":0.8},{"binary":"not_cyberbullying","type":null,"p_bully":0.2}]}`)

	res, err := resp.Batch()
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.True(t, res[0].IsBullying())
	assert.False(t, res[1].IsBullying())
}

func TestCommand_Valid(t *testing.T) {
	assert.True(t, CommandClassify.Valid())
	assert.True(t, CommandScan.Valid())
	assert.True(t, CommandBatch.Valid())
	assert.False(t, Command("explain").Valid())
}
