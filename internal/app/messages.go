package app

// Wire message payloads for the signalling protocol (spec.md §4.6). The
// Orchestrator builds and sends these directly over a session's
// transport — internal/adapters/ws only frames/dispatches, it never
// constructs protocol JSON itself. Field names are lowercase per
// spec.md §6.

type registeredMsg struct {
	Type     string           `json:"type"`
	Name     string           `json:"name"`
	Channels []ChannelSummary `json:"channels"`
}

type channelsMsg struct {
	Type string           `json:"type"`
	List []ChannelSummary `json:"list"`
}

type channelCreatedMsg struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
	Owner   string `json:"owner"`
}

type joinedMsg struct {
	Type    string   `json:"type"`
	Channel string   `json:"channel"`
	Owner   string   `json:"owner"`
	Users   []string `json:"users"`
}

type userJoinedMsg struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type leftMsg struct {
	Type string `json:"type"`
}

type userLeftMsg struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Channel string `json:"channel"`
}

type channelClosedMsg struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

type channelDeletedMsg struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

type talkingMsg struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Talking bool   `json:"talking"`
}

type mutedMsg struct {
	Type   string `json:"type"`
	Muted  bool   `json:"muted"`
	Source string `json:"source,omitempty"`
}

type pongMsg struct {
	Type string `json:"type"`
}

// KickedMsg is the `kicked` notice AdminKick sends before evicting a
// session. It is exported so callers of the exported Orchestrator.Evict
// can build the same notice.
type KickedMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newErrorMsg(err error) errorMsg {
	return errorMsg{Type: "error", Message: err.Error()}
}
