package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 時間戳的三種線上編碼都要正規化為數值毫秒
func TestMillisUnmarshal(t *testing.T) {
	var m Millis

	assert.NoError(t, json.Unmarshal([]byte(`1700000000123`), &m))
	assert.Equal(t, Millis(1700000000123), m)

	assert.NoError(t, json.Unmarshal([]byte(`"1700000000123"`), &m))
	assert.Equal(t, Millis(1700000000123), m)

	assert.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.Equal(t, Millis(0), m)

	assert.NoError(t, json.Unmarshal([]byte(`"2023-11-14T22:13:20.123Z"`), &m))
	assert.Equal(t, Millis(1700000000123), m)
}

// 字串或陣列雙重編碼在邊界就正規化成陣列
func TestStringListUnmarshal(t *testing.T) {
	var s StringList

	assert.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &s))
	assert.Equal(t, StringList{"a", "b"}, s)

	assert.NoError(t, json.Unmarshal([]byte(`"[\"a\",\"b\"]"`), &s))
	assert.Equal(t, StringList{"a", "b"}, s)

	assert.NoError(t, json.Unmarshal([]byte(`""`), &s))
	assert.Equal(t, StringList{}, s)

	assert.NoError(t, json.Unmarshal([]byte(`null`), &s))
	assert.Nil(t, s)
}

// 父訊息 id 依事件型別走不同欄位
func TestReplyPayloadParentID(t *testing.T) {
	add := ReplyPayload{EventType: MessageEventAdd, ParentIDOfReply: "p-add", ReplyToParentID: "x", Mid: "y"}
	assert.Equal(t, "p-add", add.ParentID())

	edit := ReplyPayload{EventType: MessageEventEdit, ReplyToParentID: "p-edit"}
	assert.Equal(t, "p-edit", edit.ParentID())

	del := ReplyPayload{EventType: MessageEventDelete, Mid: "p-del"}
	assert.Equal(t, "p-del", del.ParentID())
}

// 未讀數永不為負
func TestChannelUnreadCount(t *testing.T) {
	c := Channel{TotalMsgCount: 5, TotalRead: 7}
	assert.Equal(t, 0, c.UnreadCount())

	c = Channel{TotalMsgCount: 9, TotalRead: 4}
	assert.Equal(t, 5, c.UnreadCount())
}
