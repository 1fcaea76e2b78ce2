package validator

import (
	"ctchen222/Tic-Tac-Toe-AI/pkg/proto"
	"testing"
)

func TestClientMessageValidation(t *testing.T) {
	tests := []struct {
		name    string
		msg     proto.ClientToServerMessage
		wantErr bool
	}{
		{name: "Move", msg: proto.ClientToServerMessage{Type: proto.TypeMove, Position: []int{0, 2}}},
		{name: "Restart", msg: proto.ClientToServerMessage{Type: proto.TypeRestart}},
		{name: "Missing type", msg: proto.ClientToServerMessage{Position: []int{0, 0}}, wantErr: true},
		{name: "Unknown type", msg: proto.ClientToServerMessage{Type: "rematch"}, wantErr: true},
		{name: "Move without position", msg: proto.ClientToServerMessage{Type: proto.TypeMove}, wantErr: true},
		{name: "Short position", msg: proto.ClientToServerMessage{Type: proto.TypeMove, Position: []int{1}}, wantErr: true},
		{name: "Position out of range", msg: proto.ClientToServerMessage{Type: proto.TypeMove, Position: []int{1, 3}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := GetValidator().Struct(tt.msg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Struct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	err := GetValidator().Struct(proto.ClientToServerMessage{Type: "rematch"})
	if got, want := Describe(err), "type failed oneof=move restart"; got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}

	err = GetValidator().Struct(proto.ClientToServerMessage{Type: proto.TypeMove})
	if got, want := Describe(err), "position failed required_if=Type move"; got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}
