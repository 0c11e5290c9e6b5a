package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cyberxai/cyberxai/pkg/protocol"
	"github.com/stretchr/testify/assert"
)

func TestNewRequest(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantOK bool
		want   string
	}{
		{name: "plain text", text: "you are worthless", wantOK: true, want: "you are worthless"},
		{name: "surrounding whitespace", text: "\n\t hello \n", wantOK: true, want: "hello"},
		{name: "empty", text: "", wantOK: false},
		{name: "whitespace only", text: " \n\t ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, ok := NewRequest("r1", ModeSelection, "tab-1", tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Nil(t, req)
				return
			}
			assert.Equal(t, tt.want, req.Text)
			assert.Equal(t, TabID("tab-1"), req.Source)
		})
	}
}

func TestModeMapping(t *testing.T) {
	assert.Equal(t, protocol.CommandClassify, ModeSelection.Command())
	assert.Equal(t, protocol.CommandScan, ModePageScan.Command())
	assert.Equal(t, protocol.PageCmdGetSelection, ModeSelection.PageCommand().Cmd)
	assert.Equal(t, protocol.PageCmdGetPageText, ModePageScan.PageCommand().Cmd)
}

func TestKindOf(t *testing.T) {
	cause := errors.New("boom")

	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindUnexpectedFailure, KindOf(cause))
	assert.Equal(t, KindNoTextFound, KindOf(fmt.Errorf("selection: %w", ErrNoText)))

	wrapped := fmt.Errorf("outer: %w", NewCheckError(KindHostError, cause))
	assert.Equal(t, KindHostError, KindOf(wrapped))
	assert.ErrorIs(t, wrapped, cause)
}

func TestEventConstructors(t *testing.T) {
	ev := NewResultShownEvent("r1", "tab-1", ModePageScan, "title", "body")
	assert.Equal(t, EventTypeResultShown, ev.Type)
	assert.Equal(t, "title", ev.Title)

	failed := NewCheckFailedEvent("r1", "tab-1", ModeSelection, KindHostError, errors.New("x"))
	assert.Equal(t, KindHostError, failed.Kind)

	NopEmitter(failed)
}
