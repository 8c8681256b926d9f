package entity

import (
	"fmt"
	"strings"
)

// Kind identifies one cached entity kind
type Kind uint8

const (
	KindAttachment Kind = iota
	KindCategoryChannel
	KindEmoji
	KindGroup
	KindGuild
	KindMember
	KindMessage
	KindPresence
	KindPrivateChannel
	KindRole
	KindTextChannel
	KindUser
	KindVoiceChannel
	KindVoiceState

	kindCount
)

// kindInfo holds the name and remote key tag of every kind.
// Tags are part of the remote key format and must never change.
var kindInfo = [kindCount]struct {
	name string
	tag  string
}{
	KindAttachment:      {"attachment", "at"},
	KindCategoryChannel: {"category_channel", "cc"},
	KindEmoji:           {"emoji", "em"},
	KindGroup:           {"group", "gr"},
	KindGuild:           {"guild", "g"},
	KindMember:          {"member", "m"},
	KindMessage:         {"message", "ms"},
	KindPresence:        {"presence", "pr"},
	KindPrivateChannel:  {"private_channel", "cp"},
	KindRole:            {"role", "r"},
	KindTextChannel:     {"text_channel", "ct"},
	KindUser:            {"user", "u"},
	KindVoiceChannel:    {"voice_channel", "cv"},
	KindVoiceState:      {"voice_state", "v"},
}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	return k < kindCount
}

// String returns the snake_case name of the kind
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindInfo[k].name
}

// Tag returns the short remote key tag of the kind
func (k Kind) Tag() string {
	if !k.Valid() {
		return ""
	}
	return kindInfo[k].tag
}

// Kinds returns every known kind in declaration order
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind resolves a kind from its name, accepting hyphens and any case
func ParseKind(name string) (Kind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for k := Kind(0); k < kindCount; k++ {
		if kindInfo[k].name == normalized {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown entity kind %q", name)
}
