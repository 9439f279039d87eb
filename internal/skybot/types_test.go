// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package skybot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCitationUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want Citation
	}{
		{`{"source":"a.pdf","page":4}`, Citation{"a.pdf", "4"}},
		{`{"source":"a.pdf","page":"iv"}`, Citation{"a.pdf", "iv"}},
		{`{"source":"a.pdf","page":null}`, Citation{"a.pdf", "?"}},
		{`{"source":"a.pdf"}`, Citation{"a.pdf", "?"}},
		{`{"page":2}`, Citation{"Unknown", "2"}},
		{`{"source":"  ","page":""}`, Citation{"Unknown", "?"}},
		{`{"source":"a.pdf","page":2.5}`, Citation{"a.pdf", "2.5"}},
	}
	for _, tt := range tests {
		var c Citation
		require.NoError(t, json.Unmarshal([]byte(tt.in), &c), tt.in)
		require.Equal(t, tt.want, c, tt.in)
	}
}

func TestDecodeChatResponse_DropsOddEntries(t *testing.T) {
	resp, err := decodeChatResponse([]byte(`{
		"answer": "Use 25 Nm.",
		"citations": ["a.pdf", {"source":"b.pdf","page":2}, 7],
		"images": ["/static/images/x.png", {"url":"y"}, null]
	}`))
	require.NoError(t, err)
	require.Equal(t, "Use 25 Nm.", resp.Answer)
	require.Equal(t, []Citation{{"b.pdf", "2"}}, resp.Citations)
	require.Equal(t, []string{"/static/images/x.png"}, resp.Images)
}

func TestDecodeChatResponse_NonStringAnswer(t *testing.T) {
	resp, err := decodeChatResponse([]byte(`{"answer":{"text":"x"}}`))
	require.NoError(t, err)
	require.Empty(t, resp.Answer)

	_, err = decodeChatResponse([]byte(`[1,2]`))
	require.Error(t, err)
}

func TestCitationKey(t *testing.T) {
	require.Equal(t, Citation{"A", "1"}.Key(), Citation{"A", "1"}.Key())
	require.NotEqual(t, Citation{"A", "1"}.Key(), Citation{"A", "2"}.Key())
	require.NotEqual(t, Citation{"A1", ""}.Key(), Citation{"A", "1"}.Key())
}

func TestChatRequestChannelOmission(t *testing.T) {
	data, err := json.Marshal(ChatRequest{Query: "q"})
	require.NoError(t, err)
	require.JSONEq(t, `{"query":"q"}`, string(data))

	data, err = json.Marshal(ChatRequest{Query: "q", Channel: Channel("")})
	require.NoError(t, err)
	require.JSONEq(t, `{"query":"q","channel":""}`, string(data))
}

func TestParseDetail(t *testing.T) {
	require.Equal(t, "boom", parseDetail([]byte(`{"detail":"boom"}`)))
	require.Equal(t, "file: field required; channel: too long",
		parseDetail([]byte(`{"detail":[{"loc":["body","file"],"msg":"field required"},{"loc":["body","channel"],"msg":"too long"}]}`)))
	require.Equal(t, "", parseDetail([]byte(`{"error":"x"}`)))
	require.Equal(t, "", parseDetail([]byte(`oops`)))
	require.Equal(t, `{"code":7}`, parseDetail([]byte(`{"detail":{"code":7}}`)))
}
